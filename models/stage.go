package models

// Stage представляет фазу турнира.
type Stage string

const (
	StageGroup        Stage = "group"
	StageQuarterFinal Stage = "quarter_final"
	StageSemiFinal    Stage = "semi_final"
	StageFinal        Stage = "final"
)

// stageOrder fixes the progression group -> quarter_final -> semi_final -> final.
var stageOrder = map[Stage]int{
	StageGroup:        0,
	StageQuarterFinal: 1,
	StageSemiFinal:    2,
	StageFinal:        3,
}

func (s Stage) Valid() bool {
	_, ok := stageOrder[s]
	return ok
}

// Order returns the position of the stage in the progression, starting at 0
// for the group stage. Calling Order on an unknown stage returns -1.
func (s Stage) Order() int {
	order, ok := stageOrder[s]
	if !ok {
		return -1
	}
	return order
}

// Next returns the stage that follows s. The second return value is false for
// the final (nothing follows it) and for unknown stages.
func (s Stage) Next() (Stage, bool) {
	switch s {
	case StageGroup:
		return StageQuarterFinal, true
	case StageQuarterFinal:
		return StageSemiFinal, true
	case StageSemiFinal:
		return StageFinal, true
	default:
		return "", false
	}
}

// StagesFrom lists s and every later stage, in progression order.
func StagesFrom(s Stage) []Stage {
	all := []Stage{StageGroup, StageQuarterFinal, StageSemiFinal, StageFinal}
	order := s.Order()
	if order < 0 {
		return nil
	}
	return all[order:]
}
