package record

// Kind tags the source a raw record came from.
type Kind string

const (
	KindNote        Kind = "note"
	KindDocument    Kind = "document"
	KindAgenda      Kind = "agenda"
	KindPublication Kind = "publication"
)

// Prefix returns the namespace used for event IDs derived from this kind.
func (k Kind) Prefix() string {
	switch k {
	case KindNote:
		return "note"
	case KindDocument:
		return "doc"
	case KindAgenda:
		return "agenda"
	case KindPublication:
		return "pub"
	}
	return string(k)
}

// Record is implemented by every source-specific record shape.
// Normalization dispatches on the concrete type, never on which fields are
// populated; Kind labels diagnostics.
type Record interface {
	Kind() Kind
}

// Note is a free-text annotation written on a case.
type Note struct {
	ID        string   `yaml:"id" json:"id"`
	CaseID    string   `yaml:"case_id" json:"case_id"`
	Title     string   `yaml:"title" json:"title"`
	Content   string   `yaml:"content" json:"content"`
	Tags      []string `yaml:"tags" json:"tags"`
	Channel   string   `yaml:"channel" json:"channel"`
	CreatedBy string   `yaml:"created_by" json:"created_by"`
	CreatedAt string   `yaml:"created_at" json:"created_at"`
}

func (Note) Kind() Kind { return KindNote }

// Document is an uploaded file attached to a case.
type Document struct {
	ID         string   `yaml:"id" json:"id"`
	CaseID     string   `yaml:"case_id" json:"case_id"`
	Name       string   `yaml:"name" json:"name"`
	Type       string   `yaml:"type" json:"type"`
	Status     string   `yaml:"status" json:"status"`
	UploadedBy string   `yaml:"uploaded_by" json:"uploaded_by"`
	CreatedAt  string   `yaml:"created_at" json:"created_at"`
	UpdatedAt  string   `yaml:"updated_at" json:"updated_at"`
	Tags       []string `yaml:"tags" json:"tags"`
}

func (Document) Kind() Kind { return KindDocument }

// AgendaEntry is a scheduled hearing, deadline or meeting.
// Date ("2006-01-02") and Time ("15:04") are stored separately by the agenda.
type AgendaEntry struct {
	ID          string   `yaml:"id" json:"id"`
	CaseID      string   `yaml:"case_id" json:"case_id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	EntryType   string   `yaml:"type" json:"type"`
	Location    string   `yaml:"location" json:"location"`
	Date        string   `yaml:"date" json:"date"`
	Time        string   `yaml:"time" json:"time"`
	Owner       string   `yaml:"owner" json:"owner"`
	Tags        []string `yaml:"tags" json:"tags"`
}

func (AgendaEntry) Kind() Kind { return KindAgenda }

// ExternalPublication is a court or gazette publication captured by a registry.
type ExternalPublication struct {
	ID             string `yaml:"id" json:"id"`
	CaseID         string `yaml:"case_id" json:"case_id"`
	Title          string `yaml:"title" json:"title"`
	Content        string `yaml:"content" json:"content"`
	Court          string `yaml:"court" json:"court"`
	Source         string `yaml:"source" json:"source"`
	Classification string `yaml:"classification" json:"classification"`
	Author         string `yaml:"author" json:"author"`
	PublishedAt    string `yaml:"published_at" json:"published_at"`
	ProcessNumber  string `yaml:"process_number" json:"process_number"`
}

func (ExternalPublication) Kind() Kind { return KindPublication }
