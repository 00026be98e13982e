package service

// Failure carries the message shown to the visitor alongside the underlying
// cause, which is nil for failed local validation.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Message
	}
	return f.Message + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error { return f.Err }

func fail(msg string, err error) error {
	return &Failure{Message: msg, Err: err}
}

const (
	msgSelectUser     = "Select a user first!"
	msgLoadProducts   = "Failed to load products"
	msgSearchProducts = "Failed to search products"
	msgPriceRange     = "Enter both minimum and maximum price"
	msgPriceNumbers   = "Prices must be valid numbers"
	msgFilterProducts = "Failed to filter by price"
	msgAddToCart      = "Failed to add product to cart"
	msgLoadCart       = "Failed to load cart"
	msgUpdateQuantity = "Failed to update quantity"
	msgRemoveItem     = "Failed to remove item"
	msgClearCart      = "Failed to clear cart"
	msgEmptyCart      = "Cart is empty!"
	msgCheckout       = "Failed to complete order"
	msgLoadUsers      = "Failed to load users"
	msgLoadUser       = "Failed to load user"
	msgUserNotFound   = "User not found"
	msgFillFields     = "Fill in all fields"
	msgEmailInUse     = "Email is already in use"
	msgSaveUser       = "Failed to save user"
	msgDeleteUser     = "Failed to delete user"
	msgSelection      = "Failed to update the selected user"
	msgLoadOrders     = "Failed to load orders"
	msgUnknownStatus  = "Unknown order status"
	msgUpdateStatus   = "Failed to update status"
)
