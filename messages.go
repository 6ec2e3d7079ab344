package requex

import (
	"github.com/kochabx/requex/response"
)

// StatusMessages describes common statuses to end users
var StatusMessages = map[response.Status]string{
	200:                     "The server returned the requested data.",
	201:                     "The data was created or updated.",
	202:                     "The request was queued for background processing.",
	204:                     "The data was deleted.",
	400:                     "The request was malformed; nothing was created or changed.",
	401:                     "Authentication failed (bad token, user name or password).",
	403:                     "The user is authenticated but access is forbidden.",
	404:                     "The requested record does not exist; nothing was done.",
	406:                     "The requested format is not available.",
	410:                     "The requested resource was permanently deleted.",
	422:                     "A validation error occurred while creating an object.",
	500:                     "The server hit an error, please check the server.",
	502:                     "Bad gateway.",
	503:                     "The service is unavailable, overloaded or under maintenance.",
	504:                     "Gateway timeout.",
	response.StatusCanceled: "The duplicate request was closed.",
}

// StatusMessage returns the description of status, or "" if unknown
func StatusMessage(status response.Status) string {
	return StatusMessages[status]
}
