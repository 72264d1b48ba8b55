package models

// CompanyProfile holds the issuing company identity printed on statements
type CompanyProfile struct {
	Name     string `json:"name" mapstructure:"name"`
	Address  string `json:"address" mapstructure:"address"` // may span several lines
	Phone    string `json:"phone" mapstructure:"phone"`
	Email    string `json:"email" mapstructure:"email"`
	LogoPath string `json:"logo_path" mapstructure:"logo_path"`
}

// DefaultCompanyProfile returns the built-in company identity
func DefaultCompanyProfile() CompanyProfile {
	return CompanyProfile{
		Name:     "SRM-SM",
		Address:  "Rue 18 Novembre Quartier Industriel AGADIR",
		Phone:    "05 28 82 96 00",
		Email:    "Contact@srm-sm.ma",
		LogoPath: "assets/logo.jpg",
	}
}

// Merge returns a copy of p where every non-empty field of override wins
func (p CompanyProfile) Merge(override CompanyProfile) CompanyProfile {
	merged := p
	if override.Name != "" {
		merged.Name = override.Name
	}
	if override.Address != "" {
		merged.Address = override.Address
	}
	if override.Phone != "" {
		merged.Phone = override.Phone
	}
	if override.Email != "" {
		merged.Email = override.Email
	}
	if override.LogoPath != "" {
		merged.LogoPath = override.LogoPath
	}
	return merged
}
