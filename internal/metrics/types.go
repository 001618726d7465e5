package metrics

// FileSize identifies one of the largest files in the project.
type FileSize struct {
	Path  string `json:"path"`
	Lines int    `json:"lines"`
}

// Weights tunes the quality score deductions.
type Weights struct {
	ComplexityPenalty     float64
	SecurityHighPenalty   float64
	SecurityMedPenalty    float64
	SecurityLowPenalty    float64
	LongFilePenalty       float64
	LongFileLineThreshold int
}

// DefaultWeights returns the standard deduction weights.
func DefaultWeights() Weights {
	return Weights{
		ComplexityPenalty:     2.0,
		SecurityHighPenalty:   10.0,
		SecurityMedPenalty:    5.0,
		SecurityLowPenalty:    2.0,
		LongFilePenalty:       1.0,
		LongFileLineThreshold: 500,
	}
}

// Summary is the metrics phase output.
type Summary struct {
	TotalFiles       int            `json:"totalFiles"`
	TotalLines       int            `json:"totalLines"`
	CodeLines        int            `json:"codeLines"`
	TestFiles        int            `json:"testFiles"`
	ComplexityAvg    float64        `json:"complexityAvg"`
	QualityScore     float64        `json:"qualityScore"`
	LargestFiles     []FileSize     `json:"largestFiles,omitempty"`
	FilesByExtension map[string]int `json:"filesByExtension,omitempty"`
}
