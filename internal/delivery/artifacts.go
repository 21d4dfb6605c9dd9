package delivery

// Artifact is one named file of a delivery. A nil Content means the file
// should be deleted.
type Artifact struct {
	Name    string
	Content []byte
}

// Artifacts keeps delivery order.
type Artifacts []Artifact

func (a Artifacts) Names() []string {
	names := make([]string, len(a))

	for i, artifact := range a {
		names[i] = artifact.Name
	}

	return names
}

// Get returns the content stored under name.
func (a Artifacts) Get(name string) ([]byte, bool) {
	for _, artifact := range a {
		if artifact.Name == name {
			return artifact.Content, true
		}
	}

	return nil, false
}
