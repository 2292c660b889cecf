package dto

type UpdateOddsRequest struct {
	Odds  float64 `json:"odds"`
	Actor string  `json:"actor"`
}

type UpdateLinkRequest struct {
	DeepLink string `json:"deep_link"`
	Actor    string `json:"actor"`
}

type PromoteRequest struct {
	Actor string `json:"actor"`
}

type RemoveRequest struct {
	Actor string `json:"actor"`
}

type BulkOddsItem struct {
	ID   string  `json:"id"`
	Odds float64 `json:"odds"`
}

type BulkOddsRequest struct {
	Actor string         `json:"actor"`
	Items []BulkOddsItem `json:"items"`
}

type BulkLinkItem struct {
	ID       string `json:"id"`
	DeepLink string `json:"deep_link"`
}

type BulkLinksRequest struct {
	Actor string         `json:"actor"`
	Items []BulkLinkItem `json:"items"`
}
