package domain

import (
	"time"

	"github.com/google/uuid"
)

// Plan tiers. Premium unlocks the heavier model tasks.
const (
	TierFree    = "free"
	TierPremium = "premium"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Subscription struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Tier      string     `gorm:"not null;default:free" json:"tier"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// Monthly AI usage; UsageMonth is "2006-01" and the counter resets when
	// the month rolls over.
	UsageMonth   string `gorm:"size:7" json:"usage_month"`
	MonthlyUsage int    `json:"monthly_usage"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether the subscription currently grants its tier.
func (s Subscription) Active(now time.Time) bool {
	if s.Tier == TierFree {
		return true
	}
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}

// CollectionItem is one record in the user's collection, as the frontend
// sends it. Only ID, Artist and Title matter to curation; the rest is
// passed through to the prompt context when present.
type CollectionItem struct {
	ID     string `json:"id"`
	Artist string `json:"artist"`
	Title  string `json:"title"`
	Year   *int   `json:"year,omitempty"`
	Genre  string `json:"genre,omitempty"`
}

// GearItem is one piece of playback equipment.
type GearItem struct {
	Type  string `json:"type"`
	Brand string `json:"brand"`
	Model string `json:"model"`
}

// IdentifyResult is the response of album identification from a photo.
type IdentifyResult struct {
	Match      bool    `json:"match"`
	Artist     *string `json:"artist"`
	Title      *string `json:"title"`
	Confidence string  `json:"confidence"`
}

type MetadataResult struct {
	Year        *int     `json:"year"`
	Label       *string  `json:"label"`
	Genres      []string `json:"genres"`
	Description string   `json:"description"`
}

type PlaylistItem struct {
	AlbumID string `json:"albumId"`
	Artist  string `json:"artist"`
	Title   string `json:"title"`
	Reason  string `json:"reason,omitempty"`
}

type PlaylistResult struct {
	PlaylistName string         `json:"playlistName"`
	Items        []PlaylistItem `json:"items"`
}

// CoverCandidate is one cover art URL with the source it came from.
type CoverCandidate struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

type CoversResult struct {
	Covers []CoverCandidate `json:"covers"`
}

// LyricsResult carries plain and synced (LRC) lyrics. All three fields are
// null when no match exists; that is a successful answer, not an error.
type LyricsResult struct {
	Lyrics       *string `json:"lyrics"`
	SyncedLyrics *string `json:"syncedLyrics"`
	Source       *string `json:"source"`
}

type ManualResult struct {
	ManualURL       *string  `json:"manual_url"`
	Source          *string  `json:"source"`
	Confidence      string   `json:"confidence"`
	AlternativeURLs []string `json:"alternative_urls"`
	SearchURL       string   `json:"search_url"`
}

type SignalChainItem struct {
	Position int    `json:"position"`
	Item     string `json:"item"`
	Role     string `json:"role,omitempty"`
}

type Connection struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Cable string `json:"cable,omitempty"`
}

type Setting struct {
	Item    string `json:"item"`
	Setting string `json:"setting"`
	Value   string `json:"value"`
}

type SetupGuideResult struct {
	SignalChain []SignalChainItem `json:"signal_chain"`
	Connections []Connection      `json:"connections"`
	Settings    []Setting         `json:"settings"`
	Tips        []string          `json:"tips"`
	Warnings    []string          `json:"warnings"`
}

// PriceEstimate is a cached market price lookup for a record.
type PriceEstimate struct {
	Artist    string    `json:"artist"`
	Title     string    `json:"title"`
	Currency  string    `json:"currency"`
	Low       float64   `json:"low"`
	Median    float64   `json:"median"`
	High      float64   `json:"high"`
	FetchedAt time.Time `json:"fetched_at"`
}
