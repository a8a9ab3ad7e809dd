package firestore

import (
	"time"

	"github.com/terraincognita07/femcare/internal/models"
)

type messageDocument struct {
	RequestID  string    `firestore:"requestId"`
	SenderID   string    `firestore:"senderId"`
	ReceiverID string    `firestore:"receiverId"`
	Content    string    `firestore:"content"`
	Read       bool      `firestore:"read"`
	CreatedAt  time.Time `firestore:"createdAt"`
}

func messageToDocument(message models.Message) messageDocument {
	return messageDocument{
		RequestID:  message.RequestID,
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		Content:    message.Content,
		Read:       message.Read,
		CreatedAt:  message.CreatedAt,
	}
}

func (doc messageDocument) model() models.Message {
	return models.Message{
		RequestID:  doc.RequestID,
		SenderID:   doc.SenderID,
		ReceiverID: doc.ReceiverID,
		Content:    doc.Content,
		Read:       doc.Read,
		CreatedAt:  doc.CreatedAt.UTC(),
	}
}

type symptomDocument struct {
	Name     string    `firestore:"name"`
	Severity int       `firestore:"severity"`
	Notes    string    `firestore:"notes,omitempty"`
	LoggedAt time.Time `firestore:"loggedAt"`
}

type appointmentDocument struct {
	Title    string    `firestore:"title"`
	Location string    `firestore:"location,omitempty"`
	At       time.Time `firestore:"at"`
	Notes    string    `firestore:"notes,omitempty"`
}

type weightDocument struct {
	Kilograms float64   `firestore:"kilograms"`
	LoggedAt  time.Time `firestore:"loggedAt"`
}

type kickCountDocument struct {
	Count           int       `firestore:"count"`
	StartedAt       time.Time `firestore:"startedAt"`
	DurationSeconds int64     `firestore:"durationSeconds"`
}

type checklistDocument struct {
	ID    string `firestore:"id"`
	Title string `firestore:"title"`
	Done  bool   `firestore:"done"`
}

type memoryDocument struct {
	Title    string    `firestore:"title"`
	Body     string    `firestore:"body,omitempty"`
	PhotoURL string    `firestore:"photoUrl,omitempty"`
	TakenAt  time.Time `firestore:"takenAt"`
}

type pregnancyDocument struct {
	UserID              string                `firestore:"userId"`
	DueDate             *time.Time            `firestore:"dueDate"`
	LastMenstrualPeriod *time.Time            `firestore:"lastMenstrualPeriod"`
	Symptoms            []symptomDocument     `firestore:"symptoms"`
	Appointments        []appointmentDocument `firestore:"appointments"`
	WeightEntries       []weightDocument      `firestore:"weightEntries"`
	KickCounts          []kickCountDocument   `firestore:"kickCounts"`
	Checklist           []checklistDocument   `firestore:"checklist"`
	Memories            []memoryDocument      `firestore:"memories"`
	UpdatedAt           time.Time             `firestore:"updatedAt"`
}

func pregnancyToDocument(data models.PregnancyData) pregnancyDocument {
	doc := pregnancyDocument{
		UserID:              data.UserID,
		DueDate:             data.DueDate,
		LastMenstrualPeriod: data.LastMenstrualPeriod,
		Symptoms:            make([]symptomDocument, 0, len(data.Symptoms)),
		Appointments:        make([]appointmentDocument, 0, len(data.Appointments)),
		WeightEntries:       make([]weightDocument, 0, len(data.WeightEntries)),
		KickCounts:          make([]kickCountDocument, 0, len(data.KickCounts)),
		Checklist:           make([]checklistDocument, 0, len(data.Checklist)),
		Memories:            make([]memoryDocument, 0, len(data.Memories)),
		UpdatedAt:           data.UpdatedAt,
	}
	for _, entry := range data.Symptoms {
		doc.Symptoms = append(doc.Symptoms, symptomDocument(entry))
	}
	for _, entry := range data.Appointments {
		doc.Appointments = append(doc.Appointments, appointmentDocument(entry))
	}
	for _, entry := range data.WeightEntries {
		doc.WeightEntries = append(doc.WeightEntries, weightDocument(entry))
	}
	for _, entry := range data.KickCounts {
		doc.KickCounts = append(doc.KickCounts, kickCountDocument{
			Count:           entry.Count,
			StartedAt:       entry.StartedAt,
			DurationSeconds: int64(entry.Duration / time.Second),
		})
	}
	for _, entry := range data.Checklist {
		doc.Checklist = append(doc.Checklist, checklistDocument(entry))
	}
	for _, entry := range data.Memories {
		doc.Memories = append(doc.Memories, memoryDocument(entry))
	}
	return doc
}

func (doc pregnancyDocument) model() models.PregnancyData {
	data := models.PregnancyData{
		UserID:              doc.UserID,
		DueDate:             doc.DueDate,
		LastMenstrualPeriod: doc.LastMenstrualPeriod,
		UpdatedAt:           doc.UpdatedAt,
	}
	for _, entry := range doc.Symptoms {
		data.Symptoms = append(data.Symptoms, models.PregnancySymptom(entry))
	}
	for _, entry := range doc.Appointments {
		data.Appointments = append(data.Appointments, models.PregnancyAppointment(entry))
	}
	for _, entry := range doc.WeightEntries {
		data.WeightEntries = append(data.WeightEntries, models.WeightEntry(entry))
	}
	for _, entry := range doc.KickCounts {
		data.KickCounts = append(data.KickCounts, models.KickCount{
			Count:     entry.Count,
			StartedAt: entry.StartedAt,
			Duration:  time.Duration(entry.DurationSeconds) * time.Second,
		})
	}
	for _, entry := range doc.Checklist {
		data.Checklist = append(data.Checklist, models.ChecklistItem(entry))
	}
	for _, entry := range doc.Memories {
		data.Memories = append(data.Memories, models.Memory(entry))
	}
	return data
}

type cycleDocument struct {
	LastPeriodStart    *time.Time `firestore:"lastPeriodStart"`
	PeriodEndDate      *time.Time `firestore:"periodEndDate"`
	CycleLengthHistory []int      `firestore:"cycleLengthHistory"`
	UpdatedAt          time.Time  `firestore:"updatedAt"`
}

func cycleToDocument(record models.CycleRecord) cycleDocument {
	history := record.CycleLengthHistory
	if history == nil {
		history = []int{}
	}
	return cycleDocument{
		LastPeriodStart:    record.LastPeriodStart,
		PeriodEndDate:      record.PeriodEndDate,
		CycleLengthHistory: history,
		UpdatedAt:          record.UpdatedAt,
	}
}

func (doc cycleDocument) model() models.CycleRecord {
	return models.CycleRecord{
		LastPeriodStart:    doc.LastPeriodStart,
		PeriodEndDate:      doc.PeriodEndDate,
		CycleLengthHistory: doc.CycleLengthHistory,
		UpdatedAt:          doc.UpdatedAt,
	}
}

type userDocument struct {
	DisplayName string    `firestore:"displayName"`
	DeviceToken string    `firestore:"deviceToken"`
	Language    string    `firestore:"language"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

func (doc userDocument) model() models.User {
	language := doc.Language
	if language == "" {
		language = "en"
	}
	return models.User{
		DisplayName: doc.DisplayName,
		DeviceToken: doc.DeviceToken,
		Language:    language,
		CreatedAt:   doc.CreatedAt,
	}
}
