package unifi

type modelKey struct {
	deviceType string
	model      string
}

// modelNames maps controller type/model codes to "SKU / marketing name".
var modelNames = map[modelKey]string{
	// uap
	{"uap", "BZ2"}:     "UAP / Access Point",
	{"uap", "BZ2LR"}:   "UAP-LR / Access Point Long-Range",
	{"uap", "U2HSR"}:   "UAP-Outdoor+ / Access Point Outdoor+",
	{"uap", "U2IW"}:    "UAP-IW / Access Point In-Wall",
	{"uap", "U2L48"}:   "UAP-LR / Access Point Long-Range",
	{"uap", "U2Lv2"}:   "UAP-LRv2 / Access Point Long-Range",
	{"uap", "U2M"}:     "UAP-Mini / Access Point Mini",
	{"uap", "U2O"}:     "UAP-Outdoor / Access Point Outdoor",
	{"uap", "U2S48"}:   "UAP / Access Point",
	{"uap", "U2Sv2"}:   "UAPv2 / Access Point",
	{"uap", "U5O"}:     "UAP-Outdoor5 / Access Point Outdoor 5",
	{"uap", "U6ENT"}:   "U6-Enterprise / Access Point WiFi 6 Enterprise",
	{"uap", "U6EXT"}:   "U6-Extender / Access Point WiFi 6 Extender",
	{"uap", "U6IW"}:    "U6-IW / Access Point WiFi 6 In-Wall",
	{"uap", "U6M"}:     "U6-Mesh / Access Point WiFi 6 Mesh",
	{"uap", "U7E"}:     "UAP-AC / Access Point AC",
	{"uap", "U7EDU"}:   "UAP-AC-EDU / Access Point AC EDU",
	{"uap", "U7Ev2"}:   "UAP-AC / Access Point AC",
	{"uap", "U7HD"}:    "UAP-AC-HD / Access Point AC HD",
	{"uap", "U7IW"}:    "UAP-AC-IW / Access Point AC In-Wall",
	{"uap", "U7IWP"}:   "UAP-AC-IW-Pro / Access Point AC In-Wall Pro",
	{"uap", "U7LR"}:    "UAP-AC-LR / Access Point AC Long-Range",
	{"uap", "U7LT"}:    "UAP-AC-Lite / Access Point AC Lite",
	{"uap", "U7MP"}:    "UAP-AC-M-Pro / Access Point AC Mesh Pro",
	{"uap", "U7MSH"}:   "UAP-AC-M / Access Point AC Mesh",
	{"uap", "U7NHD"}:   "UAP-nanoHD / Access Point nanoHD",
	{"uap", "U7O"}:     "UAP-AC-Outdoor / Access Point AC Outdoor",
	{"uap", "U7P"}:     "UAP-AC-Pro / Access Point AC Pro",
	{"uap", "U7PG2"}:   "UAP-AC-Pro / Access Point AC Pro",
	{"uap", "U7SHD"}:   "UAP-AC-SHD / Access Point AC SHD",
	{"uap", "UAE6"}:    "U6-Extender-EA / Access Point WiFi 6 Extender",
	{"uap", "UAIW6"}:   "U6-IW-EA / Access Point WiFi 6 In-Wall",
	{"uap", "UAL6"}:    "U6-Lite / Access Point WiFi 6 Lite",
	{"uap", "UALR6"}:   "U6-LR-EA / Access Point WiFi 6 Long-Range",
	{"uap", "UALR6v2"}: "U6-LR / Access Point WiFi 6 Long-Range",
	{"uap", "UALR6v3"}: "U6-LR / Access Point WiFi 6 Long-Range",
	{"uap", "UAM6"}:    "U6-Mesh-EA / Access Point WiFi 6 Mesh",
	{"uap", "UAP6"}:    "U6-LR / Access Point WiFi 6 Long-Range",
	{"uap", "UAP6MP"}:  "U6-Pro / Access Point WiFi 6 Pro",
	{"uap", "UCMSH"}:   "UAP-XG-Mesh / Access Point Mesh XG",
	{"uap", "UCXG"}:    "UAP-XG / Access Point XG",
	{"uap", "UDMB"}:    "UAP-BeaconHD / Access Point BeaconHD",
	{"uap", "UFLHD"}:   "UAP-FlexHD / Access Point FlexHD",
	{"uap", "UHDIW"}:   "UAP-IW-HD / Access Point In-Wall HD",
	{"uap", "ULTE"}:    "U-LTE / UniFi LTE",
	{"uap", "ULTEPEU"}: "U-LTE-Pro / UniFi LTE Pro",
	{"uap", "ULTEPUS"}: "U-LTE-Pro / UniFi LTE Pro",
	{"uap", "UP1"}:     "USP-Plug / SmartPower Plug",
	{"uap", "UP6"}:     "USP-Strip / SmartPower Strip (6 ports)",
	{"uap", "UXBSDM"}:  "UWB-XG-BK / WiFi BaseStation XG",
	{"uap", "UXSDM"}:   "UWB-XG / WiFi BaseStation XG",
	{"uap", "p2N"}:     "PICOM2HP / PicoStation M2 HP",
	// usw
	{"usw", "S216150"}:  "US-16-150W / Switch 16 PoE (150 W)",
	{"usw", "S224250"}:  "US-24-250W / Switch 24 PoE (250 W)",
	{"usw", "S224500"}:  "US-24-500W / Switch 24 PoE (500 W)",
	{"usw", "S248500"}:  "US-48-500W / Switch 48 PoE (500 W)",
	{"usw", "S248750"}:  "US-48-750W / Switch 48 PoE (750 W)",
	{"usw", "S28150"}:   "US-8-150W / Switch 8 PoE (150 W)",
	{"usw", "UDC48X6"}:  "USW-Leaf / Switch Leaf",
	{"usw", "US16P150"}: "US-16-150W / Switch 16 PoE (150 W)",
	{"usw", "US24"}:     "USW-24-G1 / Switch 24",
	{"usw", "US24P250"}: "US-24-250W / Switch 24 PoE (250 W)",
	{"usw", "US24P500"}: "US-24-500W / Switch 24 PoE (500 W)",
	{"usw", "US24PL2"}:  "US-L2-24-PoE / Switch 24 PoE",
	{"usw", "US24PRO"}:  "USW-Pro-24-PoE / Switch Pro 24 PoE",
	{"usw", "US24PRO2"}: "USW-Pro-24 / Switch Pro 24",
	{"usw", "US48"}:     "US-48-G1 / Switch 48",
	{"usw", "US48P500"}: "US-48-500W / Switch 48 PoE (500 W)",
	{"usw", "US48P750"}: "US-48-750W / Switch 48 PoE (750 W)",
	{"usw", "US48PL2"}:  "US-L2-48-PoE / Switch 48 PoE",
	{"usw", "US48PRO"}:  "USW-Pro-48-PoE / Switch Pro 48 PoE",
	{"usw", "US48PRO2"}: "USW-Pro-48 / Switch Pro 48",
	{"usw", "US624P"}:   "USW-Enterprise-24-PoE / Switch Enterprise 24 PoE",
	{"usw", "US648P"}:   "USW-Enterprise-48-PoE / Switch Enterprise 48 PoE",
	{"usw", "US68P"}:    "USW-Enterprise-8-PoE / Switch Enterprise 8 PoE",
	{"usw", "US6XG150"}: "US-XG-6PoE / Switch 6 XG PoE",
	{"usw", "US8"}:      "US-8 / Switch 8",
	{"usw", "US8P150"}:  "US-8-150W / Switch 8 PoE (150 W)",
	{"usw", "US8P60"}:   "US-8-60W / Switch 8 (60 W)",
	{"usw", "USAGGPRO"}: "USW-Pro-Aggregation / Switch Aggregation Pro",
	{"usw", "USC8"}:     "US-8 / Switch 8",
	{"usw", "USC8P150"}: "US-8-150W / Switch 8 PoE (150 W)",
	{"usw", "USC8P450"}: "USW-Industrial / Switch Industrial",
	{"usw", "USC8P60"}:  "US-8-60W / Switch 8 (60 W)",
	{"usw", "USF5P"}:    "USW-Flex / Switch Flex",
	{"usw", "USFXG"}:    "USW-Flex-XG / Switch Flex XG",
	{"usw", "USL16LP"}:  "USW-Lite-16-PoE / Switch Lite 16 PoE",
	{"usw", "USL16P"}:   "USW-16-PoE / Switch 16 PoE",
	{"usw", "USL24"}:    "USW-24-G2 / Switch 24",
	{"usw", "USL24P"}:   "USW-24-PoE / Switch 24 PoE",
	{"usw", "USL48"}:    "USW-48-G2 / Switch 48",
	{"usw", "USL48P"}:   "USW-48-PoE / Switch 48 PoE",
	{"usw", "USL8A"}:    "USW-Aggregation / Switch Aggregation",
	{"usw", "USL8LP"}:   "USW-Lite-8-PoE / Switch Lite 8 PoE",
	{"usw", "USL8MP"}:   "USW-Mission-Critical / Switch Mission Critical",
	{"usw", "USMINI"}:   "USW-Flex-Mini / Switch Flex Mini",
	{"usw", "USPPDUP"}:  "USP-PDU-Pro / SmartPower PDU Pro",
	{"usw", "USPRPS"}:   "USP-RPS / SmartPower Redundant Power System",
	{"usw", "USXG"}:     "US-16-XG / Switch XG 16",
	{"usw", "USXG24"}:   "USW-EnterpriseXG-24 / Switch Enterprise XG 24",
	// ugw
	{"ugw", "UGW3"}:   "USG-3P / Security Gateway",
	{"ugw", "UGW4"}:   "USG-Pro-4 / Security Gateway Pro",
	{"ugw", "UGWHD4"}: "USG / Security Gateway",
	{"ugw", "UGWXG"}:  "USG-XG-8 / Security Gateway XG",
	// uxg
	{"uxg", "UXGPRO"}: "UXG-Pro / Next-Generation Gateway Pro",
	// ubb
	{"ubb", "UBB"}:   "UBB / Building-to-Building Bridge",
	{"ubb", "UBBXG"}: "UBB-XG / Building-to-Building Bridge XG",
	// uas
	{"uas", "UASXG"}: "UAS-XG / Application Server XG",
	// udm
	{"udm", "UDM"}:      "UDM / Dream Machine",
	{"udm", "UDMPRO"}:   "UDM-Pro / Dream Machine Pro",
	{"udm", "UDMPROSE"}: "UDM-SE / Dream Machine Special Edition",
	{"udm", "UDR"}:      "UDR / Dream Router",
	{"udm", "UDW"}:      "UDW / Dream Wall",
	{"udm", "UDWPRO"}:   "UDWPRO / Dream Wall Pro",
	// uck
	{"uck", "UCK"}:    "UCK / Cloud Key",
	{"uck", "UCK-v2"}: "UCK / Cloud Key",
	{"uck", "UCK-v3"}: "UCK / Cloud Key",
	{"uck", "UCKG2"}:  "UCK-G2 / Cloud Key Gen2",
	{"uck", "UCKP"}:   "UCK-G2-Plus / Cloud Key Gen2 Plus",
	// uph
	{"uph", "UP4"}:   "UVP-X / Phone",
	{"uph", "UP5"}:   "UVP / Phone",
	{"uph", "UP5c"}:  "UVP / Phone",
	{"uph", "UP5t"}:  "UVP-Pro / Phone Professional",
	{"uph", "UP5tc"}: "UVP-Pro / Phone Professional",
	{"uph", "UP7"}:   "UVP-Executive / Phone Executive",
	{"uph", "UP7c"}:  "UVP-Executive / Phone Executive",
}

// LookupModel returns the marketing name for a device type and model code.
func LookupModel(deviceType, model string) (string, bool) {
	name, ok := modelNames[modelKey{deviceType: deviceType, model: model}]
	return name, ok
}
