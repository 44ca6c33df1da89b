// Package forumapi names the Forum's HTTP endpoints, form fields, and
// response-scraping conventions shared by internal/puller and
// internal/poster, so neither package hardcodes markup coupling in more
// than one place.
package forumapi

// Endpoints, relative to config.ForumBaseURL.
const (
	PathHome         = "/"
	PathLogin        = "/login.jsp"
	PathGroupLastmod = "/group-lastmod.jsp"
	PathViewMessage  = "/view-message.jsp"
	PathAddTopic     = "/add.jsp"
	PathAddComment   = "/add_comment.jsp"
)

// Login form fields.
const (
	FieldLoginNick   = "nick"
	FieldLoginPasswd = "passwd"
)

// Submission form fields, shared by topic and comment posts.
const (
	FieldSession  = "session"
	FieldGroup    = "group" // topic submissions only
	FieldTopic    = "topic"
	FieldReplyTo  = "replyto"
	FieldTitle    = "title"
	FieldMessage  = "msg"
	FieldLinkText = "linktext"
	FieldURL      = "url"
	FieldTags     = "tags"
	FieldMode     = "mode"
	FieldAutoURL  = "autourl"
	FieldImage    = "image"
)

// Mode values: "tex" for a new topic, "ntobrq" for a comment.
const (
	ModeTopic   = "tex"
	ModeComment = "ntobrq"
)

// AutoURLValue is the fixed "autourl" form value the Forum expects.
const AutoURLValue = "1"

// SessionCookieName is the cookie whose value becomes the "session" form
// field.
const SessionCookieName = "JSESSIONID"

// Query parameters for group-lastmod.jsp pagination and view-message.jsp
// thread pages.
const (
	QueryGroup  = "group"
	QueryOffset = "offset"
	QueryMsgid  = "msgid"
	QueryPage   = "page"
)
