package db

import "gorm.io/gorm"

type Repositories struct {
	Users         *UserRepository
	Records       *RecordRepository
	Partnerships  *PartnershipRepository
	Invites       *InviteRepository
	Conversations *ConversationRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(database),
		Records:       NewRecordRepository(database),
		Partnerships:  NewPartnershipRepository(database),
		Invites:       NewInviteRepository(database),
		Conversations: NewConversationRepository(database),
	}
}
