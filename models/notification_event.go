package models

type NotificationEvent string

const (
	EventVersionCreated     NotificationEvent = "VERSION_CREATED"
	EventVoteRequested      NotificationEvent = "VOTE_REQUESTED"
	EventVotingCompleted    NotificationEvent = "VOTING_COMPLETED"
	EventSignatureRequested NotificationEvent = "SIGNATURE_REQUESTED"
	EventDocumentSigned     NotificationEvent = "DOCUMENT_SIGNED"
	EventDelegated          NotificationEvent = "DELEGATED"
)
