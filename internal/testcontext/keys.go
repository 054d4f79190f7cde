package testcontext

// Well-known keys shared between page objects and step definitions.
const (
	KeyCurrentUser          = "current_user"
	KeyValidUsers           = "valid_users"
	KeyInvalidUsers         = "invalid_users"
	KeySelectedProduct      = "selected_product"
	KeyOrderQuantity        = "order_quantity"
	KeySelectedOrderType    = "selected_order_type"
	KeySelectedAddress      = "selected_shipping_address"
	KeyOrderPlacedTimestamp = "order_placed_timestamp"
	KeyGeneratedOrderNumber = "generated_order_number"
	KeyCompleteOrderDetails = "complete_order_details"
	KeySearchCriteria       = "search_criteria"
)

// StoreUserData stores data under user_<id>.
func (s *Store) StoreUserData(userID string, data any) {
	s.Set("user_"+userID, data)
}

// UserData returns user_<id>.
func (s *Store) UserData(userID string) (any, error) {
	return s.Get("user_" + userID)
}

// StoreFormData stores data under form_<name>.
func (s *Store) StoreFormData(formName string, data any) {
	s.Set("form_"+formName, data)
}

// FormData returns form_<name>.
func (s *Store) FormData(formName string) (any, error) {
	return s.Get("form_" + formName)
}

// StoreAPIResponse stores a response under api_<endpoint>.
func (s *Store) StoreAPIResponse(endpoint string, response any) {
	s.Set("api_"+endpoint, response)
}

// APIResponse returns api_<endpoint>.
func (s *Store) APIResponse(endpoint string) (any, error) {
	return s.Get("api_" + endpoint)
}
