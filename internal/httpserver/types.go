package httpserver

import (
	"repomd-proxy/internal/interfaces"
	"repomd-proxy/internal/revision"
)

// StatsResponse reports cache occupancy and resolver state for diagnostics
type StatsResponse struct {
	Namespaces map[string]interfaces.NamespaceStats `json:"namespaces"`
	Revision   revision.CacheStats                  `json:"revision"`
	ActiveRev  string                               `json:"active_rev,omitempty"`
	URLs       SampleURLs                           `json:"urls"`
}

// SampleURLs shows the URL shapes the generator currently produces
type SampleURLs struct {
	Media  string `json:"media"`
	Shared string `json:"shared"`
}
