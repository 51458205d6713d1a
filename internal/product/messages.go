package product

// User-facing messages.
const (
	MsgLoginRequired   = "You must be logged in to upload products"
	MsgForbidden       = "You do not have permission to modify this product"
	MsgNoApproval      = "You do not have permission to upload products. Please contact the admin for upload permission."
	MsgNameRequired    = "Product name is required"
	MsgPriceRequired   = "Valid price is required"
	MsgBadCategory     = "Unknown category"
	MsgTooManyImages   = "You can upload at most 10 images"
	MsgImagesOnly      = "Only image files are allowed"
	MsgImageUnreadable = "Image could not be read"

	MsgCreated        = "Product uploaded successfully"
	MsgCreateFailed   = "Upload failed"
	MsgCreateNetwork  = "An error occurred during upload"
	MsgUpdated        = "Product updated successfully"
	MsgUpdateFailed   = "Failed to update product"
	MsgUpdateNetwork  = "Network error. Could not update product."
	MsgDeleted        = "Product deleted successfully"
	MsgDeleteFailed   = "Failed to delete product"
	MsgDeleteNetwork  = "Network error. Could not delete product."
	MsgConfirmDelete  = "Are you sure you want to delete this product?"
	MsgDraftActive    = "Finish or cancel the current edit first"
	MsgDeletePending  = "This product is waiting for delete confirmation"
	MsgNoDraft        = "No product is being edited"
	MsgProductMissing = "Product is not in the current list"
)

// ReasonAdminApproval is the server's reason for uploads by users the admin
// has not approved yet.
const ReasonAdminApproval = "admin_approval_required"
