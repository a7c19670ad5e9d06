package models

// JobType is the engagement type of a job posting.
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

// ValidJobTypes returns all valid job type values.
func ValidJobTypes() []JobType {
	return []JobType{
		JobTypeFullTime,
		JobTypePartTime,
		JobTypeContract,
		JobTypeInternship,
	}
}

// IsValid checks if the job type is valid.
func (j JobType) IsValid() bool {
	for _, valid := range ValidJobTypes() {
		if j == valid {
			return true
		}
	}
	return false
}

// PayRange is an inclusive pay band.
type PayRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Job is a posting on the talent board.
type Job struct {
	ID           string   `json:"id" db:"id"`
	Title        string   `json:"title" db:"title"`
	BusinessID   string   `json:"businessId" db:"business_id"`
	BusinessName string   `json:"businessName" db:"business_name"`
	Skills       []string `json:"skills" db:"skills"`
	JobType      JobType  `json:"jobType" db:"job_type"`
	PayRange     PayRange `json:"payRange" db:"pay_range"`
	Location     string   `json:"location" db:"location"`
	PostedDate   string   `json:"postedDate" db:"posted_date"`
	Description  string   `json:"description" db:"description"`
	Requirements []string `json:"requirements" db:"requirements"`
}

// Talent is a job seeker profile.
type Talent struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Skills       []string  `json:"skills" db:"skills"`
	Availability string    `json:"availability" db:"availability"`
	Bio          string    `json:"bio" db:"bio"`
	Email        string    `json:"email,omitempty" db:"email"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	Education    string    `json:"education,omitempty" db:"education"`
	Experience   string    `json:"experience" db:"experience"`
	LookingFor   []JobType `json:"lookingFor" db:"looking_for"`
	Portfolio    string    `json:"portfolio,omitempty" db:"portfolio"`
}

// SeeksJobType reports whether the talent is looking for the given job type.
func (t *Talent) SeeksJobType(jobType JobType) bool {
	for _, jt := range t.LookingFor {
		if jt == jobType {
			return true
		}
	}
	return false
}
