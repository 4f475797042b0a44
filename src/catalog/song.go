package catalog

// SheetType is the chart flavour a sheet belongs to.
type SheetType string

const (
	SheetTypeDX    SheetType = "dx"
	SheetTypeStd   SheetType = "std"
	SheetTypeUtage SheetType = "utage"
)

// Valid reports whether t is one of the known sheet types.
func (t SheetType) Valid() bool {
	switch t {
	case SheetTypeDX, SheetTypeStd, SheetTypeUtage:
		return true
	}
	return false
}

// Difficulty is the difficulty slot of a sheet.
type Difficulty string

const (
	DifficultyBasic    Difficulty = "basic"
	DifficultyAdvanced Difficulty = "advanced"
	DifficultyExpert   Difficulty = "expert"
	DifficultyMaster   Difficulty = "master"
	DifficultyRemaster Difficulty = "remaster"
)

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBasic, DifficultyAdvanced, DifficultyExpert, DifficultyMaster, DifficultyRemaster:
		return true
	}
	return false
}

// NoteCounts holds per-kind note totals. A nil counter means unknown, not zero.
type NoteCounts struct {
	Tap   *int `json:"tap"`
	Hold  *int `json:"hold"`
	Slide *int `json:"slide"`
	Touch *int `json:"touch"`
	Break *int `json:"break"`
	Total *int `json:"total"`
}

// Regions tells in which game regions a sheet is playable.
type Regions struct {
	JP   bool `json:"jp"`
	Intl bool `json:"intl"`
	CN   bool `json:"cn"`
}

// RegionOverrides maps a region code to region specific values. The content is not interpreted.
type RegionOverrides map[string]map[string]any

// Sheet is one playable difficulty of a song.
type Sheet struct {
	Type               SheetType       `json:"type" validate:"oneof=dx std utage"`
	Difficulty         Difficulty      `json:"difficulty" validate:"oneof=basic advanced expert master remaster"`
	Level              string          `json:"level"`
	LevelValue         float64         `json:"levelValue"`
	InternalLevel      *string         `json:"internalLevel"`
	InternalLevelValue float64         `json:"internalLevelValue"`
	NoteDesigner       string          `json:"noteDesigner"`
	NoteCounts         NoteCounts      `json:"noteCounts"`
	Regions            Regions         `json:"regions"`
	RegionOverrides    RegionOverrides `json:"regionOverrides"`
	IsSpecial          bool            `json:"isSpecial"`
	Version            string          `json:"version"`
}

// Song is a catalog entry. Songs are built once at load time and never modified afterwards.
type Song struct {
	SongID      string  `json:"songId"`
	Category    string  `json:"category"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	BPM         int     `json:"bpm"` // 0 means not specified
	ImageName   string  `json:"imageName"`
	Version     string  `json:"version"`
	ReleaseDate Date    `json:"releaseDate"`
	IsNew       bool    `json:"isNew"`
	IsLocked    bool    `json:"isLocked"`
	Comment     *string `json:"comment"`
	Sheets      []Sheet `json:"sheets" validate:"dive"`
}

// Catalog is the read side of the song collection.
type Catalog interface {
	// Songs returns every song in source order. The returned slice must not be modified.
	Songs() ([]*Song, error)
}
