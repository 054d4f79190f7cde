package assertion

import (
	"fmt"
	"reflect"

	"github.com/fjglira/GoE2E-PageFlow/internal/testcontext"
)

// Helper routes every assertion through the test context so the compared
// values stay inspectable after the fact.
type Helper struct {
	store *testcontext.Store
}

// NewHelper creates a Helper writing into store.
func NewHelper(store *testcontext.Store) *Helper {
	return &Helper{store: store}
}

// StoreForAssertion records actual and expected under key.
func (h *Helper) StoreForAssertion(key string, actual, expected any) {
	h.store.StoreForAssertion(key, actual, expected)
}

// AssertStoredValues compares previously stored values for key.
func (h *Helper) AssertStoredValues(key string) error {
	return h.store.AssertStoredValues(key)
}

// AssertAndStore stores actual and expected under key and compares them.
func (h *Helper) AssertAndStore(key string, actual, expected any) error {
	h.StoreForAssertion(key, actual, expected)
	return h.AssertStoredValues(key)
}

// AssertPageTitle asserts under <page>_title.
func (h *Helper) AssertPageTitle(pageName, actual, expected string) error {
	return h.AssertAndStore(pageName+"_title", actual, expected)
}

// AssertFormField asserts under form_<field>.
func (h *Helper) AssertFormField(fieldName, actual, expected string) error {
	return h.AssertAndStore("form_"+fieldName, actual, expected)
}

// AssertUserData asserts under user_<id>.
func (h *Helper) AssertUserData(userID string, actual, expected any) error {
	return h.AssertAndStore("user_"+userID, actual, expected)
}

// AssertAPIResponse asserts under api_<endpoint>.
func (h *Helper) AssertAPIResponse(endpoint string, actual, expected any) error {
	return h.AssertAndStore("api_"+endpoint, actual, expected)
}

// AssertElementText asserts under element_<name>.
func (h *Helper) AssertElementText(elementName, actual, expected string) error {
	return h.AssertAndStore("element_"+elementName, actual, expected)
}

// AssertElementCount asserts under count_<name>.
func (h *Helper) AssertElementCount(elementName string, actual, expected int) error {
	return h.AssertAndStore("count_"+elementName, actual, expected)
}

// AssertURL asserts under current_url.
func (h *Helper) AssertURL(actual, expected string) error {
	return h.AssertAndStore("current_url", actual, expected)
}

// AssertBoolean asserts under bool_<key>.
func (h *Helper) AssertBoolean(key string, actual, expected bool) error {
	return h.AssertAndStore("bool_"+key, actual, expected)
}

// AssertArrayLength asserts len(actual) under array_length_<name>. actual must
// be a slice or array.
func (h *Helper) AssertArrayLength(arrayName string, actual any, expected int) error {
	v := reflect.ValueOf(actual)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return fmt.Errorf("assert array length %q: %T is not a slice or array", arrayName, actual)
	}
	return h.AssertAndStore("array_length_"+arrayName, v.Len(), expected)
}

// AssertObjectProperty asserts under obj_<object>_<property>.
func (h *Helper) AssertObjectProperty(objectName, propertyName string, actual, expected any) error {
	return h.AssertAndStore("obj_"+objectName+"_"+propertyName, actual, expected)
}
