package domain

// ContextSentence is an example sentence with its English translation.
type ContextSentence struct {
	ID      int64  `json:"id" db:"id"`
	Dutch   string `json:"dutch" db:"dutch"`
	English string `json:"english" db:"english"`
	Level   *Level `json:"level" db:"level"`
}

// Rule is a grammar explanation. Title and Explanation are the Russian texts;
// the En/Uk variants may be empty.
type Rule struct {
	ID            int64  `json:"id" db:"id"`
	Title         string `json:"title" db:"title"`
	Explanation   string `json:"explanation" db:"explanation"`
	TitleEn       string `json:"titleEn" db:"title_en"`
	ExplanationEn string `json:"explanationEn" db:"explanation_en"`
	TitleUk       string `json:"titleUk" db:"title_uk"`
	ExplanationUk string `json:"explanationUk" db:"explanation_uk"`
	Difficulty    Level  `json:"difficulty" db:"difficulty"`
}

// Verb is an irregular verb with its principal parts.
type Verb struct {
	ID             int64  `json:"id" db:"id"`
	Infinitive     string `json:"infinitive" db:"infinitive"`
	PastSingular   string `json:"pastSingular" db:"past_singular"`
	PastParticiple string `json:"pastParticiple" db:"past_participle"`
	Translation    string `json:"translation" db:"translation"`
	Example        string `json:"example" db:"example"`
	IsLearned      bool   `json:"isLearned" db:"is_learned"`
}
