package models

// Patch is a partial update of a UserRecord. Nil fields are left untouched;
// a non-nil pointer to "" clears the field.
//
// ID and Email are applied like any other field. Callers are expected not to
// change them, and no uniqueness check happens on this path.
type Patch struct {
	ID          *ID     `json:"id,omitempty"`
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`

	Title      *string `json:"title,omitempty"`
	Summary    *string `json:"summary,omitempty"`
	Skills     *string `json:"skills,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Location   *string `json:"location,omitempty"`
	LinkedIn   *string `json:"linkedin,omitempty"`
	GitHub     *string `json:"github,omitempty"`
	Education  *string `json:"education,omitempty"`
	Experience *string `json:"experience,omitempty"`

	Resume          *bool   `json:"resume,omitempty"`
	ProfileImage    *bool   `json:"profileImage,omitempty"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty"`

	// ProfileCompletion, when set, overrides the computed score.
	ProfileCompletion *int `json:"profileCompletion,omitempty"`
}

// Apply copies every non-nil field of p onto u. ProfileCompletion is not
// applied here; the session store decides between it and the computed score.
func (p Patch) Apply(u *UserRecord) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}

	if p.ID != nil {
		u.ID = *p.ID
	}
	setString(&u.Name, p.Name)
	setString(&u.Email, p.Email)
	setString(&u.DateOfBirth, p.DateOfBirth)
	setString(&u.Title, p.Title)
	setString(&u.Summary, p.Summary)
	setString(&u.Skills, p.Skills)
	setString(&u.Phone, p.Phone)
	setString(&u.Location, p.Location)
	setString(&u.LinkedIn, p.LinkedIn)
	setString(&u.GitHub, p.GitHub)
	setString(&u.Education, p.Education)
	setString(&u.Experience, p.Experience)
	setBool(&u.Resume, p.Resume)
	setBool(&u.ProfileImage, p.ProfileImage)
	setString(&u.ProfileImageURL, p.ProfileImageURL)
}

// SetField sets the patch field addressed by its JSON name from a string
// value. It reports false for unknown or non-text fields.
func (p *Patch) SetField(name, value string) bool {
	v := value
	switch name {
	case "name":
		p.Name = &v
	case "dateOfBirth":
		p.DateOfBirth = &v
	case "title":
		p.Title = &v
	case "summary":
		p.Summary = &v
	case "skills":
		p.Skills = &v
	case "phone":
		p.Phone = &v
	case "location":
		p.Location = &v
	case "linkedin":
		p.LinkedIn = &v
	case "github":
		p.GitHub = &v
	case "education":
		p.Education = &v
	case "experience":
		p.Experience = &v
	default:
		return false
	}
	return true
}

// String returns a pointer to s, for building patches inline.
func String(s string) *string { return &s }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n.
func Int(n int) *int { return &n }
