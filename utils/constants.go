package utils

const (
	// Bill statuses
	BillStatusDraft   = "DRAFT"
	BillStatusSettled = "SETTLED"

	// Reserved id of the person who owns this device
	CurrentUserID = "local_me"

	// Titles used when a bill has no name of its own
	DefaultScanTitle  = "New Bill"
	DefaultBillTitle  = "Untitled Bill"
	RemovedPersonName = "Removed contact"

	// Color used for people that no longer exist in the registry
	RemovedPersonColor = "slate-500"

	// HTTP status messages
	ErrInvalidRequest   = "Invalid request"
	ErrBillNotFound     = "Bill"
	ErrPersonNotFound   = "Person"
	ErrGroupNotFound    = "Group"
	ErrItemNotFound     = "Item"
	ErrFailedToStore    = "Failed to store data"
	ErrFailedToRetrieve = "Failed to retrieve data"

	// Decimal places kept when amounts are shown to a user
	DisplayPlaces = 2
)

// PersonColors is the palette new friends get a color from.
var PersonColors = []string{
	"indigo-500",
	"purple-500",
	"emerald-500",
	"teal-500",
	"pink-500",
	"blue-500",
	"orange-500",
}
