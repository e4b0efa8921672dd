package watcher

// ChangeAnalysis describes what changed and what needs to be reloaded
// before the graph is analyzed again
type ChangeAnalysis struct {
	NeedConfigReload  bool
	NeedCatalogReload bool
	ChangedFiles      []string
}

// AnalyzeChanges determines what needs to be reloaded for a change event
func AnalyzeChanges(event ChangeEvent) *ChangeAnalysis {
	analysis := &ChangeAnalysis{
		ChangedFiles: event.Paths,
	}

	switch event.Type {
	case ChangeTypeConfig:
		// The config may point at another catalog or change the selection
		analysis.NeedConfigReload = true
		analysis.NeedCatalogReload = true

	case ChangeTypeCatalog:
		analysis.NeedCatalogReload = true
	}

	return analysis
}
