package entity

// Cause is a social cause a project, organization or volunteer supports.
type Cause struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Skill is an ability a project asks for or a volunteer offers.
type Skill struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CauseIDs returns the ids of the given causes in input order.
func CauseIDs(causes []Cause) []int64 {
	ids := make([]int64, len(causes))
	for i, c := range causes {
		ids[i] = c.ID
	}
	return ids
}

// SkillIDs returns the ids of the given skills in input order.
func SkillIDs(skills []Skill) []int64 {
	ids := make([]int64, len(skills))
	for i, s := range skills {
		ids[i] = s.ID
	}
	return ids
}
