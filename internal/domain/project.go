package domain

// ProjectCreator is the inline creator record of a project. It is not
// resolved against the user collection.
type ProjectCreator struct {
	ID       string `json:"uuid"`
	FullName string `json:"full_name"`
}

// ProjectDoc is a document attached to a project.
type ProjectDoc struct {
	ID        string `json:"uuid"`
	Filename  string `json:"filename"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// Project is a record from projects.json.
type Project struct {
	ID          string         `json:"uuid"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	IsPrivate   bool           `json:"is_private"`
	IsStarter   bool           `json:"is_starter_project"`
	Creator     ProjectCreator `json:"creator"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	Docs        []ProjectDoc   `json:"docs"`
}
