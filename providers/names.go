package providers

const (
	// Identifier for api.ip.sb.
	NameIPSB = "ipsb"

	// Identifier for api.myip.com.
	NameMyIP = "myip"

	// Identifier for api.ipify.org.
	NameIPify = "ipify"

	// Identifier for ipinfo.io.
	NameIPInfo = "ipinfo"

	// Identifier for ip-api.com.
	NameIPAPI = "ipapi"
)
