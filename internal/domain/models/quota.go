// internal/domain/models/quota.go
package models

// QuotaSnapshot is the derived storage accounting for one user. It is
// recomputed from the active item set on demand and never cached; accuracy
// matters more than latency here.
type QuotaSnapshot struct {
	Used      int64 `json:"used"`
	Limit     int64 `json:"limit"`
	Remaining int64 `json:"remaining"`
	ItemCount int   `json:"item_count"`
}

// PublicSnapshot is the visitor-visible projection of one user's desktop:
// the active public items paired with the profile. It is derived from the
// authoritative item store and cached with a short TTL; a stale copy may
// under-represent very recent visibility changes for up to one TTL window,
// which is an accepted tradeoff, not a correctness bug.
type PublicSnapshot struct {
	Profile Profile `bson:"profile" json:"profile"`
	Items   []Item  `bson:"items" json:"items"`
}
