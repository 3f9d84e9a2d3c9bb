package domain

// ResponseEvaluation scores a generated response on four rubric axes, each an
// integer in [1,5]. OverallScore is the unrounded mean of the four. Created
// once per response and immutable thereafter.
type ResponseEvaluation struct {
	Accuracy     int      `json:"accuracy"`
	Relevance    int      `json:"relevance"`
	Completeness int      `json:"completeness"`
	Clarity      int      `json:"clarity"`
	OverallScore float64  `json:"overall_score"`
	Feedback     []string `json:"feedback"`
	Error        string   `json:"error,omitempty"`
}
