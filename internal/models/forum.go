package models

import "time"

// Thread is a forum discussion started by a business.
type Thread struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	AuthorID  string    `json:"authorId" db:"author_id"`
	Category  string    `json:"category" db:"category"`
	Content   string    `json:"content" db:"content"`
	Tags      []string  `json:"tags" db:"tags"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Views     int       `json:"views" db:"views"`
	Helpful   int       `json:"helpful" db:"helpful"`
}

// Reply is a response posted to a thread.
type Reply struct {
	ID           string    `json:"id" db:"id"`
	ThreadID     string    `json:"threadId" db:"thread_id"`
	AuthorID     string    `json:"authorId" db:"author_id"`
	Content      string    `json:"content" db:"content"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
	HelpfulCount int       `json:"helpfulCount" db:"helpful_count"`
}

// ForumCategories lists the fixed forum categories, "All" first.
func ForumCategories() []string {
	return []string{
		"All",
		"Ask for Help",
		"Collaboration Opportunities",
		"Hiring & Local Talent",
		"Marketplace",
		"Business Ideas",
		"Announcements",
	}
}
