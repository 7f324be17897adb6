package session

// Event is one of the signals the shell reports to the Bootstrapper.
type Event interface {
	Name() string
}

// Activated is posted when the client starts or comes to the foreground.
type Activated struct{}

// ReloadRequested is posted when the user asks to reload the content.
type ReloadRequested struct{}

// ProfileCleared is posted when the user removes their profile.
type ProfileCleared struct{}

// ProfileSubmitted carries the raw text of the profile form.
type ProfileSubmitted struct {
	Endpoint string
	Secret   string
}

// ContentLoaded is posted when the shell finished loading a page.
type ContentLoaded struct {
	Location string
}

func (Activated) Name() string        { return "activated" }
func (ReloadRequested) Name() string  { return "reload-requested" }
func (ProfileCleared) Name() string   { return "profile-cleared" }
func (ProfileSubmitted) Name() string { return "profile-submitted" }
func (ContentLoaded) Name() string    { return "content-loaded" }
