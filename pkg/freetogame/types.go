package freetogame

// GameSummary is one row of the catalog listing.
type GameSummary struct {
	ID                   int    `json:"id"`
	Title                string `json:"title"`
	Thumbnail            string `json:"thumbnail"`
	ShortDescription     string `json:"short_description"`
	GameURL              string `json:"game_url"`
	Genre                string `json:"genre"`
	Platform             string `json:"platform"`
	Publisher            string `json:"publisher"`
	Developer            string `json:"developer"`
	ReleaseDate          string `json:"release_date"`
	FreeToGameProfileURL string `json:"freetogame_profile_url"`
}

// SystemRequirements lists the minimum hardware for a game.
type SystemRequirements struct {
	OS        string `json:"os"`
	Processor string `json:"processor"`
	Memory    string `json:"memory"`
	Graphics  string `json:"graphics"`
	Storage   string `json:"storage"`
}

// Screenshot is a single catalog screenshot.
type Screenshot struct {
	ID    int    `json:"id"`
	Image string `json:"image"`
}

// GameDetail is the full record returned by the single-game endpoint.
type GameDetail struct {
	GameSummary
	Status                    string              `json:"status"`
	Description               string              `json:"description"`
	MinimumSystemRequirements *SystemRequirements `json:"minimum_system_requirements,omitempty"`
	Screenshots               []Screenshot        `json:"screenshots,omitempty"`
}

// statusEnvelope is what the catalog answers with when a lookup has no result.
type statusEnvelope struct {
	Status        *int   `json:"status"`
	StatusMessage string `json:"status_message"`
}
