package openapi

// Raw source-native record shapes. Every field stays a string so that
// leading-zero times, dates and codes survive decoding untouched; all
// reshaping happens in the normalizer.

// IncheonItem is one raw record of the hub schedule API (JSON family).
type IncheonItem struct {
	Airline     string `json:"airline"`
	Airport     string `json:"airport"`
	AirportCode string `json:"airportcode"`
	FlightID    string `json:"flightid"`
	St          string `json:"st"`
	FirstDate   string `json:"firstdate"`
	LastDate    string `json:"lastdate"`
	Season      string `json:"season"`
	Monday      string `json:"monday"`
	Tuesday     string `json:"tuesday"`
	Wednesday   string `json:"wednesday"`
	Thursday    string `json:"thursday"`
	Friday      string `json:"friday"`
	Saturday    string `json:"saturday"`
	Sunday      string `json:"sunday"`
}

// RegionalItem is one raw record of the regional weekly-schedule API
// (XML generation 1). City names are free-text Korean, possibly in
// slash-compound form; the airline name may be absent.
type RegionalItem struct {
	AirlineNm   string `xml:"airlineNm"`
	DomFlightNo string `xml:"domFlightNo"`
	DepCityNm   string `xml:"depCityNm"`
	ArrCityNm   string `xml:"arrCityNm"`
	DepTime     string `xml:"depTime"`
	StartDt     string `xml:"startDt"`
	EndDt       string `xml:"endDt"`
	Season      string `xml:"season"`
	Monday      string `xml:"monday"`
	Tuesday     string `xml:"tuesday"`
	Wednesday   string `xml:"wednesday"`
	Thursday    string `xml:"thursday"`
	Friday      string `xml:"friday"`
	Saturday    string `xml:"saturday"`
	Sunday      string `xml:"sunday"`
}

// ProbeItem is one raw record of the domestic operations API
// (XML generation 2). Times are YYYYMMDDHHmm; the flight number rides in
// vihicleId (sic, upstream spelling) and the airline name may be absent.
type ProbeItem struct {
	AirlineNm    string `xml:"airlineNm"`
	VihicleID    string `xml:"vihicleId"`
	DepPlandTime string `xml:"depPlandTime"`
	ArrPlandTime string `xml:"arrPlandTime"`
	DepAirportNm string `xml:"depAirportNm"`
	ArrAirportNm string `xml:"arrAirportNm"`
}
