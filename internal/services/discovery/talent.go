package discovery

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"auctus-engine/internal/models"
)

// SortOption orders talent board results.
type SortOption string

const (
	SortRecent     SortOption = "recent"
	SortPay        SortOption = "pay"
	SortType       SortOption = "type"
	SortExperience SortOption = "experience"
	SortMatch      SortOption = "match"
)

// AnyValue disables the job type and availability filters.
const AnyValue = "All"

// JobQuery filters the job board. Zero values disable a filter.
type JobQuery struct {
	Search  string
	Skills  []string
	JobType string
	Sort    SortOption
}

// TalentQuery filters the talent board. Zero values disable a filter.
type TalentQuery struct {
	Search       string
	Skills       []string
	Availability string
	LookingFor   []models.JobType
	Sort         SortOption
}

// FilterJobs applies search, skill and job type filters, then sorts.
// Recent puts later catalog entries first; unknown sort options keep catalog order.
func (s *Service) FilterJobs(q JobQuery) []models.Job {
	all := s.repo.Jobs()
	search := strings.ToLower(strings.TrimSpace(q.Search))

	type indexed struct {
		job models.Job
		pos int
	}
	var matched []indexed
	for i, j := range all {
		if search != "" &&
			!strings.Contains(strings.ToLower(j.Title), search) &&
			!strings.Contains(strings.ToLower(j.Description), search) &&
			!anyContains(j.Skills, search) &&
			!strings.Contains(strings.ToLower(j.BusinessName), search) {
			continue
		}
		if !hasAllSkills(j.Skills, q.Skills) {
			continue
		}
		if q.JobType != "" && q.JobType != AnyValue && string(j.JobType) != q.JobType {
			continue
		}
		matched = append(matched, indexed{job: j, pos: i})
	}

	sort.SliceStable(matched, func(a, b int) bool {
		switch q.Sort {
		case SortRecent:
			return matched[a].pos > matched[b].pos
		case SortPay:
			return matched[a].job.PayRange.Max > matched[b].job.PayRange.Max
		case SortType:
			return matched[a].job.JobType < matched[b].job.JobType
		default:
			return false
		}
	})

	jobs := make([]models.Job, 0, len(matched))
	for _, m := range matched {
		jobs = append(jobs, m.job)
	}
	return jobs
}

// FilterTalents applies search, skill, availability and job type filters, then sorts.
// Match ranks by how many of the selected skills a profile has.
func (s *Service) FilterTalents(q TalentQuery) []models.Talent {
	all := s.repo.Talents()
	search := strings.ToLower(strings.TrimSpace(q.Search))

	type indexed struct {
		talent models.Talent
		pos    int
	}
	var matched []indexed
	for i, t := range all {
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Name), search) &&
			!strings.Contains(strings.ToLower(t.Bio), search) &&
			!anyContains(t.Skills, search) &&
			!strings.Contains(strings.ToLower(t.Experience), search) {
			continue
		}
		if !hasAllSkills(t.Skills, q.Skills) {
			continue
		}
		if q.Availability != "" && q.Availability != AnyValue && t.Availability != q.Availability {
			continue
		}
		if len(q.LookingFor) > 0 && !seeksAny(&all[i], q.LookingFor) {
			continue
		}
		matched = append(matched, indexed{talent: t, pos: i})
	}

	sort.SliceStable(matched, func(a, b int) bool {
		switch q.Sort {
		case SortRecent:
			return matched[a].pos > matched[b].pos
		case SortExperience:
			return ExperienceYears(matched[a].talent.Experience) > ExperienceYears(matched[b].talent.Experience)
		case SortMatch:
			return countSkills(matched[a].talent.Skills, q.Skills) > countSkills(matched[b].talent.Skills, q.Skills)
		default:
			return false
		}
	})

	talents := make([]models.Talent, 0, len(matched))
	for _, m := range matched {
		talents = append(talents, m.talent)
	}
	return talents
}

// UniqueSkills returns every skill on the board, deduplicated and sorted.
func (s *Service) UniqueSkills() []string {
	seen := make(map[string]bool)
	var skills []string
	add := func(values []string) {
		for _, v := range values {
			if !seen[v] {
				seen[v] = true
				skills = append(skills, v)
			}
		}
	}
	for _, j := range s.repo.Jobs() {
		add(j.Skills)
	}
	for _, t := range s.repo.Talents() {
		add(t.Skills)
	}
	sort.Strings(skills)
	return skills
}

// ExperienceYears reads the leading integer of an experience string such as "5 years".
// It returns zero when there is none.
func ExperienceYears(experience string) int {
	trimmed := strings.TrimSpace(experience)
	end := strings.IndexFunc(trimmed, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(trimmed)
	}
	years, err := strconv.Atoi(trimmed[:end])
	if err != nil {
		return 0
	}
	return years
}

func hasAllSkills(have, want []string) bool {
	return countSkills(have, want) == len(want)
}

func countSkills(have, want []string) int {
	n := 0
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				n++
				break
			}
		}
	}
	return n
}

func seeksAny(t *models.Talent, types []models.JobType) bool {
	for _, jt := range types {
		if t.SeeksJobType(jt) {
			return true
		}
	}
	return false
}
