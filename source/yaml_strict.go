package source

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// checkYAMLNode returns a *DuplicateKeyError for the first mapping that
// repeats a key. path is the JSON Pointer of n.
func checkYAMLNode(n *yaml.Node, path string) error {
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			if err := checkYAMLNode(c, path); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Tag == "!!merge" {
				continue
			}
			if pos, dup := first[k.Value]; dup {
				p := path
				if p == "" {
					p = "/"
				}
				return &DuplicateKeyError{
					Path: p, Key: k.Value,
					Line: k.Line, Col: k.Column,
					FirstLine: pos[0], FirstCol: pos[1],
				}
			}
			first[k.Value] = [2]int{k.Line, k.Column}
			if err := checkYAMLNode(v, path+"/"+escapePointer(k.Value)); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for i, c := range n.Content {
			if err := checkYAMLNode(c, path+"/"+strconv.Itoa(i)); err != nil {
				return err
			}
		}
	}
	return nil
}
