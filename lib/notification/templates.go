package notificationhandler

import (
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
	"fmt"
	"time"

	"github.com/hako/durafmt"
)

const ruUnits = "год:лет,неделя:недель,день:дней,час:часов,минута:минут,секунда:секунд,миллисекунда:миллисекунд,микросекунда:микросекунд"

// HumanDuration длительность словами, не больше двух единиц ("2 дней 3 часов")
func HumanDuration(d time.Duration) string {
	if d < time.Second {
		d = time.Second
	}
	d = d.Truncate(time.Second)
	formatter := durafmt.Parse(d).LimitFirstN(2)
	units, err := durafmt.DefaultUnitsCoder.Decode(ruUnits)
	if err != nil {
		return formatter.String()
	}
	return formatter.Format(units)
}

func VersionCreated(doc dbmodels.Document, version dbmodels.DocumentVersion) Payload {
	return Payload{
		Event:        models.EventVersionCreated,
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		Subject:      "Новая версия документа",
		Text:         fmt.Sprintf("Создана версия %d документа «%s».", version.Number, doc.Name),
	}
}

func VoteRequested(doc dbmodels.Document, process dbmodels.VotingProcess) Payload {
	return Payload{
		Event:           models.EventVoteRequested,
		DocumentID:      doc.ID,
		DocumentName:    doc.Name,
		VotingProcessID: process.ID,
		Subject:         "Приглашение к голосованию",
		Text: fmt.Sprintf("Вас пригласили проголосовать «%s» по документу «%s». Голосование открыто до %s.",
			process.Name, doc.Name, process.Deadline.Format("02.01.2006 15:04")),
	}
}

func VotingCompleted(doc dbmodels.Document, process dbmodels.VotingProcess, resolvedAt time.Time) Payload {
	favour, against := process.Tally()
	outcome := "принят"
	if process.Status != models.VotingAccepted {
		outcome = "отклонен"
	}
	return Payload{
		Event:           models.EventVotingCompleted,
		DocumentID:      doc.ID,
		DocumentName:    doc.Name,
		VotingProcessID: process.ID,
		Outcome:         string(process.Status),
		Subject:         "Голосование завершено",
		Text: fmt.Sprintf("Голосование «%s» по документу «%s» завершено: документ %s (за %d, против %d). Голосование длилось %s.",
			process.Name, doc.Name, outcome, favour, against, HumanDuration(resolvedAt.Sub(process.CreatedAt))),
	}
}

func SignatureRequested(doc dbmodels.Document, signature dbmodels.Signature) Payload {
	return Payload{
		Event:        models.EventSignatureRequested,
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		SignatureID:  signature.ID,
		Subject:      "Документ ожидает подписи",
		Text:         fmt.Sprintf("Документ «%s» отправлен вам на подпись «%s».", doc.Name, signature.Name),
	}
}

func DocumentSigned(doc dbmodels.Document) Payload {
	return Payload{
		Event:        models.EventDocumentSigned,
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		Subject:      "Документ подписан",
		Text:         fmt.Sprintf("Документ «%s» подписан всеми участниками.", doc.Name),
	}
}

func Delegated(doc dbmodels.Document, from dbmodels.User) Payload {
	return Payload{
		Event:        models.EventDelegated,
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		Subject:      "Вам передано поручение",
		Text:         fmt.Sprintf("%s передал(а) вам участие в согласовании документа «%s».", from.GetFullName(), doc.Name),
	}
}
