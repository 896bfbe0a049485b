package rule

// Result represents a decoded rule output
type Result struct {
	IsValid      bool                   `json:"isValid"`
	ErrorCode    string                 `json:"errorCode"`
	ErrorMessage string                 `json:"errorMessage"`
	ErrorParams  []string               `json:"errorParams"`
	FollowUp     int                    `json:"followUp"`
	Items        map[string]interface{} `json:"items"`
}
