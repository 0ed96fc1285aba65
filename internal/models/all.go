package models

// All lists every table in migration order.
func All() []any {
	return []any{
		&Organization{},
		&User{},
		&StaffMember{},
		&Client{},
		&OpeningHours{},
		&StaffShift{},
		&Appointment{},
		&Invoice{},
		&InvoiceLineItem{},
		&ClientNote{},
		&ClientReminder{},
		&CarePlan{},
		&CareLog{},
		&Notification{},
		&Conversation{},
		&ConversationParticipant{},
		&Message{},
		&Invitation{},
		&StoredFile{},
		&AuditLog{},
	}
}
