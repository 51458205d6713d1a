package cart

// User-facing messages.
const (
	MsgNotLoggedIn = "You are not logged in"

	MsgAdded         = "Added to cart"
	MsgAddFailed     = "Could not add to cart"
	MsgAddNetwork    = "Network error. Could not add to cart"
	MsgRemoved       = "Removed from cart"
	MsgRemoveFailed  = "Error removing item"
	MsgRemoveNetwork = "Network error. Could not remove."
	MsgLoadFailed    = "Failed to load cart"

	MsgDetailsRequired = "Phone, Email, and Location are required"
	MsgOrderPlaced     = "Order placed successfully!"
	MsgCheckoutFailed  = "Checkout failed"
	MsgCheckoutNetwork = "An error occurred during checkout"
	MsgBuyPlaced       = "Order placed successfully"
	MsgBuyFailed       = "Error placing order"
	MsgBuyNetwork      = "Failed to place order"
)

// Prompt labels for the delivery details.
const (
	PromptPhone    = "Enter delivery phone number"
	PromptEmail    = "Enter delivery email"
	PromptLocation = "Enter delivery location"
)
