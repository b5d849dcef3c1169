package airport

var defaultEntries = []Entry{
	// Spain
	{City: "Madrid", Country: "Spain", Code: "MAD"},
	{City: "Barcelona", Country: "Spain", Code: "BCN"},
	{City: "Valencia", Country: "Spain", Code: "VLC"},
	{City: "Sevilla", Country: "Spain", Code: "SVQ"},
	{City: "Seville", Country: "Spain", Code: "SVQ"},
	{City: "Bilbao", Country: "Spain", Code: "BIO"},
	{City: "Málaga", Country: "Spain", Code: "AGP"},
	{City: "San Sebastián", Country: "Spain", Code: "EAS"},
	{City: "Vigo", Country: "Spain", Code: "VGO"},
	{City: "Palma", Country: "Spain", Code: "PMI"},
	// England
	{City: "London", Country: "England", Code: "LHR"},
	{City: "London", Country: "United Kingdom", Code: "LHR"},
	{City: "Manchester", Country: "England", Code: "MAN"},
	{City: "Manchester", Country: "United Kingdom", Code: "MAN"},
	{City: "Liverpool", Country: "England", Code: "LPL"},
	{City: "Liverpool", Country: "United Kingdom", Code: "LPL"},
	{City: "Birmingham", Country: "England", Code: "BHX"},
	{City: "Newcastle", Country: "England", Code: "NCL"},
	{City: "Leeds", Country: "England", Code: "LBA"},
	{City: "Glasgow", Country: "Scotland", Code: "GLA"},
	{City: "Edinburgh", Country: "Scotland", Code: "EDI"},
	// Germany
	{City: "München", Country: "Germany", Code: "MUC"},
	{City: "Munich", Country: "Germany", Code: "MUC"},
	{City: "Berlin", Country: "Germany", Code: "BER"},
	{City: "Dortmund", Country: "Germany", Code: "DTM"},
	{City: "Hamburg", Country: "Germany", Code: "HAM"},
	{City: "Frankfurt", Country: "Germany", Code: "FRA"},
	{City: "Stuttgart", Country: "Germany", Code: "STR"},
	{City: "Köln", Country: "Germany", Code: "CGN"},
	{City: "Cologne", Country: "Germany", Code: "CGN"},
	{City: "Düsseldorf", Country: "Germany", Code: "DUS"},
	{City: "Leipzig", Country: "Germany", Code: "LEJ"},
	{City: "Bremen", Country: "Germany", Code: "BRE"},
	// Italy
	{City: "Milano", Country: "Italy", Code: "MXP"},
	{City: "Milan", Country: "Italy", Code: "MXP"},
	{City: "Roma", Country: "Italy", Code: "FCO"},
	{City: "Rome", Country: "Italy", Code: "FCO"},
	{City: "Torino", Country: "Italy", Code: "TRN"},
	{City: "Turin", Country: "Italy", Code: "TRN"},
	{City: "Napoli", Country: "Italy", Code: "NAP"},
	{City: "Naples", Country: "Italy", Code: "NAP"},
	{City: "Firenze", Country: "Italy", Code: "FLR"},
	{City: "Florence", Country: "Italy", Code: "FLR"},
	{City: "Bologna", Country: "Italy", Code: "BLQ"},
	{City: "Genova", Country: "Italy", Code: "GOA"},
	// France
	{City: "Paris", Country: "France", Code: "CDG"},
	{City: "Marseille", Country: "France", Code: "MRS"},
	{City: "Lyon", Country: "France", Code: "LYS"},
	{City: "Nice", Country: "France", Code: "NCE"},
	{City: "Bordeaux", Country: "France", Code: "BOD"},
	{City: "Lille", Country: "France", Code: "LIL"},
	// Portugal
	{City: "Lisboa", Country: "Portugal", Code: "LIS"},
	{City: "Lisbon", Country: "Portugal", Code: "LIS"},
	{City: "Porto", Country: "Portugal", Code: "OPO"},
	// Netherlands and Belgium
	{City: "Amsterdam", Country: "Netherlands", Code: "AMS"},
	{City: "Rotterdam", Country: "Netherlands", Code: "RTM"},
	{City: "Eindhoven", Country: "Netherlands", Code: "EIN"},
	{City: "Brussel", Country: "Belgium", Code: "BRU"},
	{City: "Brussels", Country: "Belgium", Code: "BRU"},
	{City: "Brugge", Country: "Belgium", Code: "BRU"},
	// Rest of Europe
	{City: "Istanbul", Country: "Turkey", Code: "IST"},
	{City: "Athens", Country: "Greece", Code: "ATH"},
	{City: "Prague", Country: "Czech Republic", Code: "PRG"},
	{City: "Vienna", Country: "Austria", Code: "VIE"},
	{City: "Salzburg", Country: "Austria", Code: "SZG"},
	{City: "Zürich", Country: "Switzerland", Code: "ZRH"},
	{City: "Copenhagen", Country: "Denmark", Code: "CPH"},
	{City: "Stockholm", Country: "Sweden", Code: "ARN"},
	{City: "Warsaw", Country: "Poland", Code: "WAW"},
	{City: "Budapest", Country: "Hungary", Code: "BUD"},
	{City: "Zagreb", Country: "Croatia", Code: "ZAG"},
	{City: "Belgrade", Country: "Serbia", Code: "BEG"},
}
