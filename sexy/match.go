package sexy

import "fmt"

// Match checks actual against pattern and describes the first mismatch.
//
// The symbol _ in a pattern matches any datum. An ellipsis as the last
// item of a pattern list matches any number of remaining items.
func Match(pattern, actual *Node) error {
	return match(pattern, actual, "root")
}

func match(pattern, actual *Node, path string) error {
	if pattern == nil || actual == nil {
		if pattern == actual {
			return nil
		}
		return fmt.Errorf("at %s: expected %v, got %v", path, pattern, actual)
	}

	if pattern.IsWildcard() {
		return nil
	}

	if pattern.Type != actual.Type {
		return fmt.Errorf("at %s: expected %s %v, got %s %v", path, pattern.Type, pattern, actual.Type, actual)
	}

	if pattern.Type != NodeList {
		if pattern.Text != actual.Text {
			return fmt.Errorf("at %s: expected %v, got %v", path, pattern, actual)
		}
		return nil
	}

	items := pattern.Items
	open := len(items) > 0 && items[len(items)-1].Type == NodeEllipsis
	if open {
		items = items[:len(items)-1]
	}

	if len(actual.Items) < len(items) || !open && len(actual.Items) != len(items) {
		return fmt.Errorf("at %s: expected %d items in %v, got %d in %v", path, len(items), pattern, len(actual.Items), actual)
	}

	for i, item := range items {
		if err := match(item, actual.Items[i], fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}

	return nil
}
