package models

import "time"

// Post is a published entry. Posts are never edited after publish.
type Post struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	Content  string    `json:"content"`
	Date     time.Time `json:"date"`
	Category string    `json:"category,omitempty"`
	Tags     []string  `json:"tags,omitempty"`
	ReadTime int       `json:"readTime,omitempty"` // minutes
}

// HasTag reports whether the post carries tag, compared exactly.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Draft is the single work-in-progress post kept by the editor.
type Draft struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Content  string `json:"content"`
	Category string `json:"category,omitempty"`
	Tags     string `json:"tags,omitempty"` // comma separated, as typed
}

// Entry is one row of the local key-value store.
type Entry struct {
	Key       string    `gorm:"primaryKey;column:entry_key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Entry) TableName() string {
	return "kv_entries"
}
