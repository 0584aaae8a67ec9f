package domain

const (
	LocaleAZ = "az"
	LocaleEN = "en"
	LocaleRU = "ru"

	DefaultLocale = LocaleAZ
)

// Locales lists supported locales, default first.
var Locales = []string{LocaleAZ, LocaleEN, LocaleRU}

func IsLocale(s string) bool {
	for _, l := range Locales {
		if l == s {
			return true
		}
	}
	return false
}

const (
	RoleAdmin  = "ADMIN"
	RoleEditor = "EDITOR"
)

const (
	ContactStatusNew      = "NEW"
	ContactStatusRead     = "READ"
	ContactStatusArchived = "ARCHIVED"
)

const (
	NotificationContactMessage = "CONTACT_MESSAGE"
)

// Setting keys.
const (
	SettingMaintenanceMode  = "maintenance_mode"
	SettingSiteName         = "site_name"
	SettingContactEmail     = "contact_email"
	SettingContactPhone     = "contact_phone"
	SettingContactRecipient = "contact_recipients"
	SettingSocialFacebook   = "social_facebook"
	SettingSocialInstagram  = "social_instagram"
	SettingSocialLinkedIn   = "social_linkedin"
	SettingSocialYoutube    = "social_youtube"
)

// PublicSettingKeys are exposed to the public site; everything else is admin-only.
var PublicSettingKeys = []string{
	SettingSiteName,
	SettingContactEmail,
	SettingContactPhone,
	SettingSocialFacebook,
	SettingSocialInstagram,
	SettingSocialLinkedIn,
	SettingSocialYoutube,
}

// DefaultSettings are inserted on first start.
var DefaultSettings = map[string]string{
	SettingMaintenanceMode:  "false",
	SettingSiteName:         "Corporate Site",
	SettingContactEmail:     "",
	SettingContactPhone:     "",
	SettingContactRecipient: "",
}

// Cache tags. Every public page is stored under the tags of the entities it reads,
// plus TagAll.
const (
	TagAll          = "all"
	TagBlogs        = "blogs"
	TagServices     = "services"
	TagEmployees    = "employees"
	TagTestimonials = "testimonials"
	TagBranches     = "branches"
	TagSliders      = "sliders"
	TagStatistics   = "statistics"
	TagMedia        = "media"
	TagSettings     = "settings"
	TagHome         = "home"
)

// Upload folders per content type.
const (
	FolderBlogs        = "blogs"
	FolderServices     = "services"
	FolderEmployees    = "employees"
	FolderTestimonials = "testimonials"
	FolderSliders      = "sliders"
	FolderMisc         = "misc"
)

var UploadFolders = []string{FolderBlogs, FolderServices, FolderEmployees, FolderTestimonials, FolderSliders, FolderMisc}

// CacheTags are the tags an admin may revalidate by hand.
var CacheTags = []string{TagAll, TagBlogs, TagServices, TagEmployees, TagTestimonials, TagBranches, TagSliders, TagStatistics, TagMedia, TagSettings, TagHome}
