package extraction

// Field weights for the overall confidence score. Duration dominates
// because a billing draft without a believable duration is useless.
const (
	weightDuration    = 0.3
	weightDate        = 0.15
	weightWorkType    = 0.2
	weightMatter      = 0.2
	weightDescription = 0.15
)

// minOverallConfidence is the floor returned when no field was
// extracted at all.
const minOverallConfidence = 0.1

// overallConfidence computes the weighted average of the per-field
// confidences, counting only fields that are present. Absent fields do
// not drag the average down; the length factor penalizes transcripts
// too short to carry real signal instead.
func overallConfidence(e *TimeEntry, textLen int) float64 {
	var sum, weight float64

	if e.Duration != nil {
		sum += e.Duration.Confidence * weightDuration
		weight += weightDuration
	}
	if e.Date != nil {
		sum += e.Date.Confidence * weightDate
		weight += weightDate
	}
	if e.WorkType != nil {
		sum += e.WorkType.Confidence * weightWorkType
		weight += weightWorkType
	}
	if e.Matter != nil {
		sum += e.Matter.Confidence * weightMatter
		weight += weightMatter
	}
	if e.Description != nil {
		sum += e.Description.Confidence * weightDescription
		weight += weightDescription
	}

	if weight == 0 {
		return minOverallConfidence
	}

	conf := (sum / weight) * lengthFactor(textLen)
	if conf < minOverallConfidence {
		conf = minOverallConfidence
	}
	if conf > 1 {
		conf = 1
	}
	return conf
}

// lengthFactor discounts very short transcripts.
func lengthFactor(textLen int) float64 {
	switch {
	case textLen < 10:
		return 0.6
	case textLen < 20:
		return 0.8
	default:
		return 1.0
	}
}
