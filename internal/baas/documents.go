package baas

import (
	"github.com/terraincognita07/femcare/internal/models"
)

// The document types below are the wire shape of the remote store. Instants use
// Timestamp; nested pregnancy entries keep their own JSON encoding.

type MessageDocument struct {
	ID         string    `json:"id,omitempty"`
	RequestID  string    `json:"requestId"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	Read       bool      `json:"read"`
	CreatedAt  Timestamp `json:"createdAt"`
}

func MessageToDocument(message models.Message) MessageDocument {
	return MessageDocument{
		ID:         message.ID,
		RequestID:  message.RequestID,
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		Content:    message.Content,
		Read:       message.Read,
		CreatedAt:  TimestampFrom(message.CreatedAt),
	}
}

func (doc MessageDocument) Model() models.Message {
	return models.Message{
		ID:         doc.ID,
		RequestID:  doc.RequestID,
		SenderID:   doc.SenderID,
		ReceiverID: doc.ReceiverID,
		Content:    doc.Content,
		Read:       doc.Read,
		CreatedAt:  doc.CreatedAt.Time(),
	}
}

type ChatPreviewDocument struct {
	RequestID     string    `json:"requestId"`
	CounterpartID string    `json:"counterpartId"`
	LastMessage   string    `json:"lastMessage"`
	Timestamp     Timestamp `json:"timestamp"`
	UnreadCount   int       `json:"unreadCount"`
}

func ChatPreviewToDocument(preview models.ChatPreview) ChatPreviewDocument {
	return ChatPreviewDocument{
		RequestID:     preview.RequestID,
		CounterpartID: preview.CounterpartID,
		LastMessage:   preview.LastMessage,
		Timestamp:     TimestampFrom(preview.LastMessageAt),
		UnreadCount:   preview.UnreadCount,
	}
}

func (doc ChatPreviewDocument) Model() models.ChatPreview {
	return models.ChatPreview{
		RequestID:     doc.RequestID,
		CounterpartID: doc.CounterpartID,
		LastMessage:   doc.LastMessage,
		LastMessageAt: doc.Timestamp.Time(),
		UnreadCount:   doc.UnreadCount,
	}
}

type ReminderDocument struct {
	ID         string                 `json:"id,omitempty"`
	UserID     string                 `json:"userId"`
	Kind       string                 `json:"kind"`
	Title      string                 `json:"title"`
	Date       string                 `json:"date"`
	Time       string                 `json:"time"`
	Recurrence *models.RecurrenceRule `json:"recurrence,omitempty"`
	Status     string                 `json:"status"`
	Metadata   map[string]string      `json:"metadata,omitempty"`
	NotifiedAt *Timestamp             `json:"notifiedAt,omitempty"`
	CreatedAt  Timestamp              `json:"createdAt"`
	UpdatedAt  Timestamp              `json:"updatedAt"`
}

const dateLayout = "2006-01-02"

func ReminderToDocument(reminder models.Reminder) ReminderDocument {
	return ReminderDocument{
		ID:         reminder.ID,
		UserID:     reminder.UserID,
		Kind:       reminder.Kind,
		Title:      reminder.Title,
		Date:       reminder.Date.Format(dateLayout),
		Time:       reminder.Time,
		Recurrence: reminder.Recurrence,
		Status:     reminder.Status,
		Metadata:   reminder.Metadata,
		NotifiedAt: OptionalTimestamp(reminder.NotifiedAt),
		CreatedAt:  TimestampFrom(reminder.CreatedAt),
		UpdatedAt:  TimestampFrom(reminder.UpdatedAt),
	}
}

func (doc ReminderDocument) Model() (models.Reminder, error) {
	date, err := parseDate(doc.Date)
	if err != nil {
		return models.Reminder{}, err
	}
	return models.Reminder{
		ID:         doc.ID,
		UserID:     doc.UserID,
		Kind:       doc.Kind,
		Title:      doc.Title,
		Date:       date,
		Time:       doc.Time,
		Recurrence: doc.Recurrence,
		Status:     doc.Status,
		Metadata:   doc.Metadata,
		NotifiedAt: doc.NotifiedAt.TimePtr(),
		CreatedAt:  doc.CreatedAt.Time(),
		UpdatedAt:  doc.UpdatedAt.Time(),
	}, nil
}

type SupportRequestDocument struct {
	ID          string    `json:"id,omitempty"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	SupportType string    `json:"supportType"`
	Anonymous   bool      `json:"anonymous"`
	Status      string    `json:"status"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

func SupportRequestToDocument(request models.SupportRequest) SupportRequestDocument {
	return SupportRequestDocument{
		ID:          request.ID,
		UserID:      request.UserID,
		Title:       request.Title,
		Description: request.Description,
		Latitude:    request.Latitude,
		Longitude:   request.Longitude,
		SupportType: request.SupportType,
		Anonymous:   request.Anonymous,
		Status:      request.Status,
		CreatedAt:   TimestampFrom(request.CreatedAt),
		UpdatedAt:   TimestampFrom(request.UpdatedAt),
	}
}

func (doc SupportRequestDocument) Model() models.SupportRequest {
	return models.SupportRequest{
		ID:          doc.ID,
		UserID:      doc.UserID,
		Title:       doc.Title,
		Description: doc.Description,
		Latitude:    doc.Latitude,
		Longitude:   doc.Longitude,
		SupportType: doc.SupportType,
		Anonymous:   doc.Anonymous,
		Status:      doc.Status,
		CreatedAt:   doc.CreatedAt.Time(),
		UpdatedAt:   doc.UpdatedAt.Time(),
	}
}

type CycleDocument struct {
	UserID             string     `json:"userId"`
	LastPeriodStart    *Timestamp `json:"lastPeriodStart"`
	PeriodEndDate      *Timestamp `json:"periodEndDate"`
	CycleLengthHistory []int      `json:"cycleLengthHistory"`
	UpdatedAt          Timestamp  `json:"updatedAt"`
}

func CycleToDocument(record models.CycleRecord) CycleDocument {
	history := record.CycleLengthHistory
	if history == nil {
		history = []int{}
	}
	return CycleDocument{
		UserID:             record.UserID,
		LastPeriodStart:    OptionalTimestamp(record.LastPeriodStart),
		PeriodEndDate:      OptionalTimestamp(record.PeriodEndDate),
		CycleLengthHistory: history,
		UpdatedAt:          TimestampFrom(record.UpdatedAt),
	}
}

func (doc CycleDocument) Model() models.CycleRecord {
	return models.CycleRecord{
		UserID:             doc.UserID,
		LastPeriodStart:    doc.LastPeriodStart.TimePtr(),
		PeriodEndDate:      doc.PeriodEndDate.TimePtr(),
		CycleLengthHistory: doc.CycleLengthHistory,
		UpdatedAt:          doc.UpdatedAt.Time(),
	}
}

type PregnancyDocument struct {
	ID                  string                        `json:"id,omitempty"`
	UserID              string                        `json:"userId"`
	DueDate             *Timestamp                    `json:"dueDate,omitempty"`
	LastMenstrualPeriod *Timestamp                    `json:"lastMenstrualPeriod,omitempty"`
	Symptoms            []models.PregnancySymptom     `json:"symptoms"`
	Appointments        []models.PregnancyAppointment `json:"appointments"`
	WeightEntries       []models.WeightEntry          `json:"weightEntries"`
	KickCounts          []models.KickCount            `json:"kickCounts"`
	Checklist           []models.ChecklistItem        `json:"checklist"`
	Memories            []models.Memory               `json:"memories"`
	UpdatedAt           Timestamp                     `json:"updatedAt"`
}

func PregnancyToDocument(data models.PregnancyData) PregnancyDocument {
	return PregnancyDocument{
		ID:                  data.ID,
		UserID:              data.UserID,
		DueDate:             OptionalTimestamp(data.DueDate),
		LastMenstrualPeriod: OptionalTimestamp(data.LastMenstrualPeriod),
		Symptoms:            data.Symptoms,
		Appointments:        data.Appointments,
		WeightEntries:       data.WeightEntries,
		KickCounts:          data.KickCounts,
		Checklist:           data.Checklist,
		Memories:            data.Memories,
		UpdatedAt:           TimestampFrom(data.UpdatedAt),
	}
}

func (doc PregnancyDocument) Model() models.PregnancyData {
	return models.PregnancyData{
		ID:                  doc.ID,
		UserID:              doc.UserID,
		DueDate:             doc.DueDate.TimePtr(),
		LastMenstrualPeriod: doc.LastMenstrualPeriod.TimePtr(),
		Symptoms:            doc.Symptoms,
		Appointments:        doc.Appointments,
		WeightEntries:       doc.WeightEntries,
		KickCounts:          doc.KickCounts,
		Checklist:           doc.Checklist,
		Memories:            doc.Memories,
		UpdatedAt:           doc.UpdatedAt.Time(),
	}
}

type UserDocument struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	DeviceToken string    `json:"deviceToken,omitempty"`
	Language    string    `json:"language"`
	CreatedAt   Timestamp `json:"createdAt"`
}

func UserToDocument(user models.User) UserDocument {
	return UserDocument{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		DeviceToken: user.DeviceToken,
		Language:    user.Language,
		CreatedAt:   TimestampFrom(user.CreatedAt),
	}
}

func (doc UserDocument) Model() models.User {
	return models.User{
		ID:          doc.ID,
		DisplayName: doc.DisplayName,
		DeviceToken: doc.DeviceToken,
		Language:    doc.Language,
		CreatedAt:   doc.CreatedAt.Time(),
	}
}
