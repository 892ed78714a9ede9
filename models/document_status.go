package models

type DocumentStatus string

const (
	DocumentStatusDraft               DocumentStatus = "DRAFT"
	DocumentStatusVotingInProgress    DocumentStatus = "VOTING_IN_PROGRESS"
	DocumentStatusVotingAccepted      DocumentStatus = "VOTING_ACCEPTED"
	DocumentStatusVotingDenied        DocumentStatus = "VOTING_DENIED"
	DocumentStatusSignatureInProgress DocumentStatus = "SIGNATURE_IN_PROGRESS"
	DocumentStatusSigned              DocumentStatus = "SIGNED"
)

var documentStatusHumanName = map[DocumentStatus]string{
	DocumentStatusDraft:               "Черновик",
	DocumentStatusVotingInProgress:    "Идет голосование",
	DocumentStatusVotingAccepted:      "Принят голосованием",
	DocumentStatusVotingDenied:        "Отклонен голосованием",
	DocumentStatusSignatureInProgress: "На подписании",
	DocumentStatusSigned:              "Подписан",
}

func (s DocumentStatus) ToHuman() string {
	if human, exist := documentStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// RoundStartStatuses статусы, из которых документ можно отправить на голосование или подпись
var RoundStartStatuses = []DocumentStatus{
	DocumentStatusDraft,
	DocumentStatusVotingAccepted,
	DocumentStatusVotingDenied,
	DocumentStatusSigned,
}

func (s DocumentStatus) IsRoundInProgress() bool {
	return s == DocumentStatusVotingInProgress || s == DocumentStatusSignatureInProgress
}
