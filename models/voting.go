package models

type VotingStatus string

const (
	VotingInProgress VotingStatus = "IN_PROGRESS"
	VotingAccepted   VotingStatus = "ACCEPTED"
	VotingDenied     VotingStatus = "DENIED"
)

func (s VotingStatus) IsTerminal() bool {
	return s == VotingAccepted || s == VotingDenied
}

// ToDocumentStatus статус документа после завершения голосования
func (s VotingStatus) ToDocumentStatus() DocumentStatus {
	if s == VotingAccepted {
		return DocumentStatusVotingAccepted
	}
	return DocumentStatusVotingDenied
}

type VoteStatus string

const (
	VoteNotVoted  VoteStatus = "NOT_VOTED"
	VoteInFavour  VoteStatus = "IN_FAVOUR"
	VoteAgainst   VoteStatus = "AGAINST"
	VoteAbstained VoteStatus = "ABSTAINED"
)

var voteStatusHumanName = map[VoteStatus]string{
	VoteNotVoted:  "Не голосовал",
	VoteInFavour:  "За",
	VoteAgainst:   "Против",
	VoteAbstained: "Воздержался",
}

func (s VoteStatus) ToHuman() string {
	if human, exist := voteStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// IsCastable статус, который участник может выставить сам
func (s VoteStatus) IsCastable() bool {
	return s == VoteInFavour || s == VoteAgainst || s == VoteAbstained
}

type SignatureStatus string

const (
	SignatureNotSigned SignatureStatus = "NOT_SIGNED"
	SignatureSigned    SignatureStatus = "SIGNED"
)
