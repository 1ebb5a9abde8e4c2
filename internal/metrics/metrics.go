// Package metrics serves simulated analytics. The numbers are derived
// from real aggregate counters plus deterministic jitter, so dashboards
// look alive without storing anything.
package metrics

import (
	"hash/fnv"
	"math/rand"

	"github.com/nocturna-net/selene/internal/entities"
)

// AccountMetrics ...
type AccountMetrics struct {
	AccountID      string  `json:"accountId"`
	ProfileVisits  uint32  `json:"profileVisits"`
	Reach          uint32  `json:"reach"`
	EngagementRate float64 `json:"engagementRate"`
	TipsReceived   int64   `json:"tipsReceived"`
}

// PlatformMetrics ...
type PlatformMetrics struct {
	Accounts       int     `json:"accounts"`
	Uploads        int     `json:"uploads"`
	Comments       int     `json:"comments"`
	Likes          int     `json:"likes"`
	TipsVolume     int64   `json:"tipsVolume"`
	ActiveFraction float64 `json:"activeFraction"`
}

// Provider produces metrics views over current entities.
type Provider interface {
	AccountMetrics(a *entities.Account) AccountMetrics
	PlatformMetrics(s *entities.Snapshot) PlatformMetrics
}

// Simulated is a Provider whose jitter is a pure function of the seed
// and the account id. Same seed, same numbers.
type Simulated struct {
	seed int64
}

// NewSimulated ...
func NewSimulated(seed int64) Simulated {
	return Simulated{seed: seed}
}

// AccountMetrics ...
func (p Simulated) AccountMetrics(a *entities.Account) AccountMetrics {
	r := p.rand(a.ID)

	visits := a.FollowersCount*3 + uint32(r.Intn(500))
	reach := visits + a.UploadsCount*12 + uint32(r.Intn(2000))

	engagement := 0.0
	if reach > 0 {
		engagement = float64(a.FollowersCount+a.UploadsCount) / float64(reach)
		if engagement > 1 {
			engagement = 1
		}
	}

	return AccountMetrics{
		AccountID:      a.ID,
		ProfileVisits:  visits,
		Reach:          reach,
		EngagementRate: engagement,
		TipsReceived:   a.TipsReceived,
	}
}

// PlatformMetrics ...
func (p Simulated) PlatformMetrics(s *entities.Snapshot) PlatformMetrics {
	var volume int64
	for _, t := range s.Tips {
		volume += t.Amount
	}

	active := 0
	for _, a := range s.Accounts {
		if a.Status == entities.AccountActive {
			active++
		}
	}

	fraction := 0.0
	if len(s.Accounts) > 0 {
		fraction = float64(active) / float64(len(s.Accounts))
	}

	return PlatformMetrics{
		Accounts:       len(s.Accounts),
		Uploads:        len(s.Uploads),
		Comments:       len(s.Comments),
		Likes:          len(s.Likes),
		TipsVolume:     volume,
		ActiveFraction: fraction,
	}
}

func (p Simulated) rand(accountID string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(accountID)) // nolint: errcheck

	return rand.New(rand.NewSource(p.seed ^ int64(h.Sum64()))) // nolint: gosec
}
