package office

// The default catalog mirrors the deployment this engine was built for:
// a handful of corporate sites sharing the same WLAN identities, one site
// with its own network, plus the synthetic remote/holiday/shop entries.

const (
	ssidCorp1 = "WLAN_PA1"
	ssidCorp2 = "WLAN_SA1"
	ssidPool  = "Piscina_online"
)

func loc(lat, lon float64) *Location { return &Location{Lat: lat, Lon: lon} }

var defaultCatalog = []Office{
	{
		ID:           "plaza-america",
		Location:     loc(39.469539049320446, -0.36502215772323376),
		SSIDs:        []string{ssidPool, ssidCorp1, ssidCorp2},
		Text:         "en Plaza América",
		Glyph:        ":us:",
		MeetingGlyph: ":reu+plaza:",
	},
	{
		ID:           "vlc1",
		Location:     loc(39.45924319299229, -0.409461898828845),
		SSIDs:        []string{ssidCorp1, ssidCorp2},
		Text:         "en Colmena VLC1",
		Glyph:        ":vlc1_bee:",
		MeetingGlyph: ":reu+colmena:",
	},
	{
		ID:           "bcn1",
		Location:     loc(41.324591285699036, 2.1306871470333615),
		SSIDs:        []string{ssidCorp1, ssidCorp2},
		Text:         "en Colmena BCN1",
		Glyph:        ":bcn1_bee:",
		MeetingGlyph: ":reu+colmena:",
	},
	{
		ID:           "mad1",
		Location:     loc(40.27895254538482, -3.6830898955727593),
		SSIDs:        []string{ssidCorp1, ssidCorp2},
		Text:         "en Colmena MAD1",
		Glyph:        ":mad1_bee:",
		MeetingGlyph: ":reu+colmena:",
	},
	{
		ID:           "alc1",
		Location:     loc(38.338134188940074, -0.5323797250531712),
		SSIDs:        []string{ssidCorp1, ssidCorp2},
		Text:         "en Colmena ALC1",
		Glyph:        ":alc1_bee:",
		MeetingGlyph: ":reu+colmena:",
	},
	{
		ID:           "svq1",
		Location:     loc(37.4303284401428, -5.971076210552222),
		SSIDs:        []string{ssidCorp1, ssidCorp2},
		Text:         "en Colmena SVQ1",
		Glyph:        ":svq1_bee:",
		MeetingGlyph: ":reu+colmena:",
	},
	{
		ID:           "mad2",
		Location:     loc(40.39546191270721, -3.849994332628127),
		SSIDs:        []string{ssidCorp1, ssidCorp2},
		Text:         "en Colmena MAD2",
		Glyph:        ":mad2_bee:",
		MeetingGlyph: ":reu+colmena:",
	},
	{
		ID:           "mad3",
		Location:     loc(40.367357765499555, -3.6342218139896008),
		SSIDs:        []string{ssidCorp1, ssidCorp2},
		Text:         "en Colmena MAD3",
		Glyph:        ":mad3_bee:",
		MeetingGlyph: ":reu+colmena:",
	},
	{
		ID:           "madrid-office",
		Location:     loc(40.454171947281196, -3.694558224534412),
		SSIDs:        []string{ssidCorp1, ssidCorp2},
		Text:         "en la oficina de Madrid",
		Glyph:        ":deciduous_tree:",
		MeetingGlyph: ":reu_mad_office:",
	},
	{
		// Shared network far from any known site: likely inside a shop.
		ID:           "shop",
		SSIDs:        []string{ssidCorp1, ssidCorp2},
		Text:         "en tienda",
		Glyph:        ":mercadona:",
		MeetingGlyph: ":mercadona:",
	},
	{
		ID:           "remote",
		Text:         "en remoto",
		Glyph:        ":house_with_garden:",
		MeetingGlyph: ":reu+home:",
	},
	{
		ID:           "holiday",
		Text:         "en vacaciones",
		Glyph:        ":palm_tree:",
		MeetingGlyph: ":palm_tree:",
	},
}

// DefaultRegistry returns the built-in catalog. The role assignments are
// fixed: plaza-america is the primary office and the shop entry absorbs
// ambiguous matches far from every site.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(defaultCatalog, "remote", "holiday", "plaza-america", "shop")
	if err != nil {
		panic(err)
	}
	return r
}
