package records

// Ключи коллекций и одиночных записей в хранилище.
const (
	Users       = "users"
	CurrentUser = "currentUser"
	Token       = "token"

	Milestones           = "milestones"
	TeamMembers          = "teamMembers"
	PeerReviews          = "peerReviews"
	EntrepreneurProfiles = "entrepreneurProfiles"

	Deals            = "deals"
	Meetings         = "meetings"
	InvestorProfiles = "investorProfiles"

	Portfolio          = "portfolio"
	Applications       = "applications"
	FreelancerProfiles = "freelancerProfiles"

	Messages    = "messages"
	Reviews     = "reviews"
	PitchEvents = "pitchEvents"
)

// QuarantineKey возвращает ключ, под которым хранятся нечитаемые записи коллекции.
func QuarantineKey(collection string) string {
	return collection + ".quarantine"
}
