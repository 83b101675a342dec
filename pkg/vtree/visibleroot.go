package vtree

// pickVisibleRoot implements spec.md §4.8: starting at the container,
// hoist past single-folder chains (with no countable file children) up
// to the configured depth.
func pickVisibleRoot(data *TreeData, cfg *config) {
	if !cfg.autoPickVisibleRoot {
		data.VisibleRootID = containerNodeID
		return
	}

	current := containerNodeID
	levels := 0
	for {
		if cfg.visibleRootMaxHoistLevels != nil && levels >= *cfg.visibleRootMaxHoistLevels {
			break
		}
		node := data.Nodes[current]
		var folderChildren []string
		fileCount := 0
		for _, cid := range node.ChildIDs {
			child := data.Nodes[cid]
			switch child.Type {
			case NodeFolder:
				folderChildren = append(folderChildren, cid)
			case NodeFile:
				if cfg.visibleRootIgnoreVirtualFiles && child.IsVirtual {
					continue
				}
				fileCount++
			}
		}
		if len(folderChildren) != 1 || fileCount != 0 {
			break
		}
		current = folderChildren[0]
		levels++
	}
	data.VisibleRootID = current
}
