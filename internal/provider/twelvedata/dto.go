package twelvedata

// timeSeriesResponse mirrors the /time_series JSON payload.
type timeSeriesResponse struct {
	Status  string            `json:"status"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Values  []timeSeriesValue `json:"values"`
}

// timeSeriesValue is one daily bar; all numbers arrive as strings.
type timeSeriesValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}
