package perception

// Growth tracks perception level advancement, independent of the
// stateless filter tables above.
type Growth struct {
	Level                 int    `json:"level"`
	TotalSensoryInputs     uint64 `json:"total_sensory_inputs"`
	ModalitiesEncountered  uint32 `json:"modalities_encountered"`
}

// levelDayRequirement mirrors language's progression shape: a day
// threshold paired with a modality-breadth threshold, both required.
var levelDayRequirement = map[int]struct {
	minDay       int
	minModalities uint32
}{
	1: {minDay: 5, minModalities: 2},
	2: {minDay: 14, minModalities: 4},
	3: {minDay: 30, minModalities: 7},
	4: {minDay: 60, minModalities: 10},
}

// Observe adds count new sensory inputs, raises ModalitiesEncountered to
// modalitiesSeenTotal (the lifetime number of distinct modality kinds)
// when that is larger, then re-evaluates the level. Level never decreases.
func Observe(g Growth, count uint64, modalitiesSeenTotal uint32, growthDay int) Growth {
	g.TotalSensoryInputs += count
	if modalitiesSeenTotal > g.ModalitiesEncountered {
		g.ModalitiesEncountered = modalitiesSeenTotal
	}

	for g.Level < 4 {
		req, ok := levelDayRequirement[g.Level+1]
		if !ok {
			break
		}
		if growthDay >= req.minDay && g.ModalitiesEncountered >= req.minModalities {
			g.Level++
			continue
		}
		break
	}
	return g
}
