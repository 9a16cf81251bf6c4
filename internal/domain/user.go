package domain

const EverythingSearchContext = "everything"

type User struct {
	ID               string
	Login            string
	Name             string
	AgreementConsent *AgreementConsent
	Profiles         *UserProfiles
}

type AgreementConsent struct {
	Accepted     bool
	MajorVersion int
	MinorVersion int
}

type UserProfiles struct {
	General    GeneralProfile
	Appearance AppearanceProfile
}

type GeneralProfile struct {
	SearchContext string
}

type AppearanceProfile struct {
	NaturalCommentsOrder bool
}

func DefaultUserProfiles() UserProfiles {
	return UserProfiles{
		General:    GeneralProfile{SearchContext: EverythingSearchContext},
		Appearance: AppearanceProfile{NaturalCommentsOrder: true},
	}
}

func (u *User) HasAcceptedAgreement() bool {
	return u != nil && u.AgreementConsent != nil && u.AgreementConsent.Accepted
}

// WithDefaultProfiles fills the profile fields a server may omit.
func (u User) WithDefaultProfiles() User {
	if u.Profiles == nil {
		profiles := DefaultUserProfiles()
		u.Profiles = &profiles
		return u
	}
	profiles := *u.Profiles
	if profiles.General.SearchContext == "" {
		profiles.General.SearchContext = EverythingSearchContext
	}
	u.Profiles = &profiles
	return u
}

func (u User) Clone() User {
	out := u
	if u.AgreementConsent != nil {
		consent := *u.AgreementConsent
		out.AgreementConsent = &consent
	}
	if u.Profiles != nil {
		profiles := *u.Profiles
		out.Profiles = &profiles
	}
	return out
}

type Agreement struct {
	Enabled      bool
	Text         string
	MajorVersion int
	MinorVersion int
}

type WorkTimeSettings struct {
	MinutesADay    int
	WorkDays       []int
	FirstDayOfWeek int
	DaysAWeek      int
}
