package classify

import "net/http"

// Variant is the stable, machine-readable name of a failure class. Clients branch on it,
// so the values never change once published.
type Variant string

// Published variants.
const (
	VariantNotFound             Variant = "NOT_FOUND"
	VariantInvalidQuery         Variant = "INVALID_QUERY"
	VariantQueryMissing         Variant = "QUERY_MISSING"
	VariantPathExists           Variant = "PATH_EXISTS"
	VariantGitError             Variant = "GIT_ERROR"
	VariantInternalError        Variant = "INTERNAL_ERROR"
	VariantTransportError       Variant = "TRANSPORT_ERROR"
	VariantPrefixError          Variant = "PREFIX_ERROR"
	VariantEmptyPath            Variant = "EMPTY_PATH"
	VariantMissingAuthorEmail   Variant = "MISSING_AUTHOR_EMAIL"
	VariantMissingGitConfig     Variant = "MISSING_GIT_CONFIG"
	VariantMissingAuthorName    Variant = "MISSING_AUTHOR_NAME"
	VariantMissingDefaultBranch Variant = "MISSING_DEFAULT_BRANCH"
	VariantMissingURL           Variant = "MISSING_URL"
	VariantPathDoesNotExist     Variant = "PATH_DOES_NOT_EXIST"
	VariantNotARepo             Variant = "NOT_A_REPO"
	VariantIOError              Variant = "IO_ERROR"
	VariantURLMismatch          Variant = "URL_MISMATCH"
	VariantMissingRemote        Variant = "MISSING_REMOTE"
	VariantUnauthorized         Variant = "UNAUTHORIZED"
	VariantIdentityExists       Variant = "IDENTITY_EXISTS"
	VariantInternalServerError  Variant = "INTERNAL_SERVER_ERROR"
	VariantIncorrectPassphrase  Variant = "INCORRECT_PASSPHRASE"
	VariantKeyExists            Variant = "KEY_EXISTS"
	VariantForbidden            Variant = "FORBIDDEN"
	VariantSessionInUse         Variant = "SESSION_IN_USE"
)

// CatalogEntry documents one published variant.
type CatalogEntry struct {
	Variant     Variant `json:"variant" yaml:"variant"`
	Statuses    []int   `json:"statuses" yaml:"statuses"`
	Description string  `json:"description" yaml:"description"`
}

var catalog = []CatalogEntry{
	{VariantNotFound, []int{http.StatusNotFound}, "no route matched, no session exists, or the requested entity or path is absent"},
	{VariantInvalidQuery, []int{http.StatusBadRequest}, "the query string could not be decoded"},
	{VariantQueryMissing, []int{http.StatusBadRequest}, "a required query string was not supplied"},
	{VariantPathExists, []int{http.StatusConflict}, "the target path of a checkout or new project already exists"},
	{VariantGitError, []int{http.StatusBadRequest, http.StatusInternalServerError}, "the version-control engine failed"},
	{VariantInternalError, []int{http.StatusInternalServerError}, "an internal failure with no dedicated variant"},
	{VariantTransportError, []int{http.StatusInternalServerError}, "moving objects to or from the local monorepo failed"},
	{VariantPrefixError, []int{http.StatusInternalServerError}, "the working copy path could not be derived"},
	{VariantEmptyPath, []int{http.StatusBadRequest}, "an existing repository path was empty"},
	{VariantMissingAuthorEmail, []int{http.StatusBadRequest}, "the author email could not be determined"},
	{VariantMissingGitConfig, []int{http.StatusBadRequest}, "the git configuration could not be read"},
	{VariantMissingAuthorName, []int{http.StatusBadRequest}, "the author name could not be determined"},
	{VariantMissingDefaultBranch, []int{http.StatusBadRequest}, "the default branch is absent from the repository"},
	{VariantMissingURL, []int{http.StatusBadRequest}, "the project URL could not be determined"},
	{VariantPathDoesNotExist, []int{http.StatusNotFound}, "an existing repository path does not exist"},
	{VariantNotARepo, []int{http.StatusBadRequest}, "the path is not a git repository"},
	{VariantIOError, []int{http.StatusBadRequest}, "a filesystem failure during project validation"},
	{VariantURLMismatch, []int{http.StatusBadRequest}, "the repository remote does not point at the project"},
	{VariantMissingRemote, []int{http.StatusInternalServerError}, "the repository has no remote for the project"},
	{VariantUnauthorized, []int{http.StatusUnauthorized}, "the session has no owner identity"},
	{VariantIdentityExists, []int{http.StatusConflict}, "the identity already exists"},
	{VariantInternalServerError, []int{http.StatusInternalServerError}, "a known failure with no dedicated variant"},
	{VariantIncorrectPassphrase, []int{http.StatusForbidden}, "the keystore passphrase is wrong"},
	{VariantKeyExists, []int{http.StatusConflict}, "a key already exists in the keystore"},
	{VariantForbidden, []int{http.StatusForbidden}, "the keystore is sealed or the auth token is invalid"},
	{VariantSessionInUse, []int{http.StatusBadRequest}, "the session is held by another identity"},
}

// Catalog returns the published variants with the statuses they are sent with.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	for i, e := range catalog {
		e.Statuses = append([]int(nil), e.Statuses...)
		out[i] = e
	}
	return out
}

// Lookup returns the catalog entry for v.
func Lookup(v Variant) (CatalogEntry, bool) {
	for _, e := range catalog {
		if e.Variant == v {
			return e, true
		}
	}
	return CatalogEntry{}, false
}
