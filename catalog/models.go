package catalog

// Meta is the free-form classification block of an annotation file. None of
// its fields are required for anything downstream.
type Meta struct {
	Mode    string `json:"mode,omitempty"`
	Type    string `json:"type,omitempty"`
	TitleEN string `json:"title_en,omitempty"`
}

// StudyItem is one grammar/vocab/phrase/conversation unit. Annotation files
// are hand- or pipeline-authored, so the shape is deliberately open: any
// field may be present or absent and consumers must check before use.
type StudyItem map[string]any

// Items groups the four study collections of an entry. Collections are
// always non-nil after normalization.
type Items struct {
	Grammar      []StudyItem `json:"grammar"`
	Vocab        []StudyItem `json:"vocab"`
	Conversation []StudyItem `json:"conversation"`
	KeyPhrases   []StudyItem `json:"key_phrases"`
}

// QuizItem is one question definition as authored in the annotation file.
// Payload and Answer are type-specific and stay untyped until grading.
type QuizItem struct {
	ID       string         `json:"id,omitempty"`
	Targets  []string       `json:"targets"`
	Type     string         `json:"type"`
	PromptEN string         `json:"prompt_en,omitempty"`
	Payload  map[string]any `json:"payload"`
	Answer   map[string]any `json:"answer"`
}

// UIHints carries presentation hints authored alongside the items.
type UIHints struct {
	RecommendedOrder []string `json:"recommended_order"`
	ShowFirst        string   `json:"show_first,omitempty"`
	ExplainOnFail    *bool    `json:"explain_on_fail,omitempty"`
}

// IgMeta is the attribution block extracted from a sibling <base>.mp4.json
// metadata file, when one exists and carries at least one useful field.
type IgMeta struct {
	Username      string `json:"username,omitempty"`
	FullName      string `json:"full_name,omitempty"`
	ProfilePicURL string `json:"profile_pic_url,omitempty"`
	PostURL       string `json:"post_url,omitempty"`
	ProfileURL    string `json:"profile_url,omitempty"`
	PostDate      string `json:"post_date,omitempty"`
	Description   string `json:"description,omitempty"`
}

// Counts are derived from the live collections on every load and never
// stored independently of them.
type Counts struct {
	Grammar      int `json:"grammar"`
	Vocab        int `json:"vocab"`
	KeyPhrases   int `json:"key_phrases"`
	Conversation int `json:"conversation"`
	Quiz         int `json:"quiz"`
}

// Annotation is the fully-defaulted result of normalizing one annotation
// document. Every collection is non-nil even for garbage input.
type Annotation struct {
	Meta    Meta
	Items   Items
	Quiz    []QuizItem
	UIHints UIHints
}

// Entry is one lesson unit: a video clip paired with its annotations and
// quiz. Entries are built once per catalog load and held immutably.
type Entry struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Meta      Meta       `json:"meta"`
	Items     Items      `json:"items"`
	Quiz      []QuizItem `json:"quiz"`
	UIHints   UIHints    `json:"ui_hints"`
	IgMeta    *IgMeta    `json:"ig_meta,omitempty"`
	VideoURL  string     `json:"video_url"`
	Counts    Counts     `json:"counts"`
	VideoPath string     `json:"-"`
	JSONPath  string     `json:"-"`
}

// Summary is the listing shape: identification, classification and counts
// only, never the item or quiz bodies.
type Summary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Mode     string `json:"mode,omitempty"`
	Type     string `json:"type,omitempty"`
	Counts   Counts `json:"counts"`
	VideoURL string `json:"video_url"`
}

// ComputeCounts derives the count block from the live collections.
func ComputeCounts(items Items, quiz []QuizItem) Counts {
	return Counts{
		Grammar:      len(items.Grammar),
		Vocab:        len(items.Vocab),
		KeyPhrases:   len(items.KeyPhrases),
		Conversation: len(items.Conversation),
		Quiz:         len(quiz),
	}
}
