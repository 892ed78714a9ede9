package votinghandler

import "docflow-backend/models"

// Resolve итог голосования по голосам "за" и "против".
// Воздержавшиеся и не проголосовавшие в расчете не участвуют, пустой бюллетень отклоняет документ.
func Resolve(favour, against int, threshold float64) models.VotingStatus {
	if favour+against == 0 {
		return models.VotingDenied
	}
	ratio := float64(favour) / float64(favour+against)
	if ratio < threshold {
		return models.VotingDenied
	}
	return models.VotingAccepted
}
