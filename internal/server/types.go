package server

type PropertyParams struct {
	Class    string `json:"class"`
	Property string `json:"property"`
}

type MethodParams struct {
	Class  string `json:"class"`
	Method string `json:"method"`
}

type ParameterParams struct {
	Class     string `json:"class"`
	Method    string `json:"method"`
	Parameter string `json:"parameter"`
}

// ClassResult holds a fully qualified class name, empty when the member documents none.
type ClassResult struct {
	Class string `json:"class"`
}

type ClassesResult struct {
	Classes []string `json:"classes"`
}

type StatusResult struct {
	Classes      int   `json:"classes"`
	ImportTables int   `json:"importTables"`
	CacheHits    int64 `json:"cacheHits"`
	CacheMisses  int64 `json:"cacheMisses"`
}
