package log

type Action = string

const (
	ListAuthors    Action = "ListAuthors"
	GetAuthor             = "GetAuthor"
	CreateAuthor          = "CreateAuthor"
	UpdateAuthor          = "UpdateAuthor"
	DeleteAuthor          = "DeleteAuthor"
	GetAuthorBooks        = "GetAuthorBooks"
	ListBooks             = "ListBooks"
	GetBook               = "GetBook"
	CreateBook            = "CreateBook"
	UpdateBook            = "UpdateBook"
	DeleteBook            = "DeleteBook"
)
