// Package claimtype translates between the short claim names clients send
// ("Name", "Role") and the canonical claim type URIs stored with each claim.
package claimtype

import (
	"fmt"
	"sort"
	"sync"

	"identity-console/internal/domain"
)

// Canonical URIs referenced directly by the console.
const (
	Name  = domain.NameClaimType
	Role  = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
	Email = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
)

const (
	soap05 = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/"
	ms08   = "http://schemas.microsoft.com/ws/2008/06/identity/claims/"
)

// Entry maps one symbolic claim name to its canonical type.
type Entry struct {
	Name string
	URI  string
}

// Standard is the supported claim set.
var Standard = []Entry{
	{"Actor", "http://schemas.xmlsoap.org/ws/2009/09/identity/claims/actor"},
	{"Anonymous", soap05 + "anonymous"},
	{"Authentication", soap05 + "authentication"},
	{"AuthenticationInstant", ms08 + "authenticationinstant"},
	{"AuthenticationMethod", ms08 + "authenticationmethod"},
	{"AuthorizationDecision", soap05 + "authorizationdecision"},
	{"CookiePath", ms08 + "cookiepath"},
	{"Country", soap05 + "country"},
	{"DateOfBirth", soap05 + "dateofbirth"},
	{"DenyOnlyPrimaryGroupSid", ms08 + "denyonlyprimarygroupsid"},
	{"DenyOnlyPrimarySid", ms08 + "denyonlyprimarysid"},
	{"DenyOnlySid", soap05 + "denyonlysid"},
	{"DenyOnlyWindowsDeviceGroup", ms08 + "denyonlywindowsdevicegroup"},
	{"Dns", soap05 + "dns"},
	{"Dsa", ms08 + "dsa"},
	{"Email", Email},
	{"Expiration", ms08 + "expiration"},
	{"Expired", ms08 + "expired"},
	{"Gender", soap05 + "gender"},
	{"GivenName", soap05 + "givenname"},
	{"GroupSid", ms08 + "groupsid"},
	{"Hash", soap05 + "hash"},
	{"HomePhone", soap05 + "homephone"},
	{"IsPersistent", ms08 + "ispersistent"},
	{"Locality", soap05 + "locality"},
	{"MobilePhone", soap05 + "mobilephone"},
	{"Name", Name},
	{"NameIdentifier", soap05 + "nameidentifier"},
	{"OtherPhone", soap05 + "otherphone"},
	{"PostalCode", soap05 + "postalcode"},
	{"PrimaryGroupSid", ms08 + "primarygroupsid"},
	{"PrimarySid", ms08 + "primarysid"},
	{"Role", Role},
	{"Rsa", soap05 + "rsa"},
	{"SerialNumber", ms08 + "serialnumber"},
	{"Sid", soap05 + "sid"},
	{"Spn", soap05 + "spn"},
	{"StateOrProvince", soap05 + "stateorprovince"},
	{"StreetAddress", soap05 + "streetaddress"},
	{"Surname", soap05 + "surname"},
	{"System", soap05 + "system"},
	{"Thumbprint", soap05 + "thumbprint"},
	{"Upn", soap05 + "upn"},
	{"Uri", soap05 + "uri"},
	{"UserData", ms08 + "userdata"},
	{"Version", ms08 + "version"},
	{"Webpage", soap05 + "webpage"},
	{"WindowsAccountName", ms08 + "windowsaccountname"},
}

// Registry is an immutable bijection between symbolic names and canonical types.
type Registry struct {
	canonical map[string]string // symbolic -> URI
	symbolic  map[string]string // URI -> symbolic
	names     []string
}

// New builds a registry, rejecting empty entries and any name or URI that
// appears twice, so inverse lookups are never ambiguous.
func New(entries []Entry) (*Registry, error) {
	r := &Registry{
		canonical: make(map[string]string, len(entries)),
		symbolic:  make(map[string]string, len(entries)),
		names:     make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		if e.Name == "" || e.URI == "" {
			return nil, domain.ErrValidation("claim type entries need both a name and a URI")
		}
		if _, dup := r.canonical[e.Name]; dup {
			return nil, domain.ErrValidation("claim type %q registered twice", e.Name)
		}
		if other, dup := r.symbolic[e.URI]; dup {
			return nil, domain.ErrValidation("claim types %q and %q share URI %s", other, e.Name, e.URI)
		}
		r.canonical[e.Name] = e.URI
		r.symbolic[e.URI] = e.Name
		r.names = append(r.names, e.Name)
	}
	sort.Strings(r.names)
	return r, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := New(Standard)
	if err != nil {
		panic(fmt.Sprintf("claimtype: standard table: %v", err))
	}
	return r
})

// Default returns the process-wide registry built from Standard.
func Default() *Registry {
	return defaultRegistry()
}

// SymbolicNames returns every symbolic name, sorted lexicographically.
func (r *Registry) SymbolicNames() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// CanonicalOf returns the claim type URI for a symbolic name. Lookup is case-sensitive.
func (r *Registry) CanonicalOf(name string) (string, error) {
	uri, ok := r.canonical[name]
	if !ok {
		return "", &domain.UnknownClaimTypeError{ClaimType: name}
	}
	return uri, nil
}

// SymbolicOf returns the symbolic name for a claim type URI.
func (r *Registry) SymbolicOf(uri string) (string, error) {
	name, ok := r.symbolic[uri]
	if !ok {
		return "", &domain.UnknownClaimTypeError{ClaimType: uri}
	}
	return name, nil
}

// Len returns the number of registered claim types.
func (r *Registry) Len() int { return len(r.names) }
