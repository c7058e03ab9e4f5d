package registry

// Defaults returns the built-in registry used when no file is configured.
func Defaults() File {
	return File{
		Domains: []DomainTrust{
			{Domain: "premierleague.com", DisplayName: "Premier League", Reliability: 100, Category: "official_league"},
			{Domain: "uefa.com", DisplayName: "UEFA", Reliability: 100, Category: "official_league"},
			{Domain: "fifa.com", DisplayName: "FIFA", Reliability: 100, Category: "official_league"},
			{Domain: "manutd.com", DisplayName: "Manchester United", Reliability: 100, Category: "club"},
			{Domain: "arsenal.com", DisplayName: "Arsenal", Reliability: 100, Category: "club"},
			{Domain: "liverpoolfc.com", DisplayName: "Liverpool FC", Reliability: 100, Category: "club"},
			{Domain: "chelseafc.com", DisplayName: "Chelsea FC", Reliability: 100, Category: "club"},
			{Domain: "mancity.com", DisplayName: "Manchester City", Reliability: 100, Category: "club"},
			{Domain: "bbc.co.uk", DisplayName: "BBC Sport", Reliability: 95, Category: "broadcaster", Specializations: []string{"premier_league", "transfers"}},
			{Domain: "reuters.com", DisplayName: "Reuters", Reliability: 95, Category: "news_agency"},
			{Domain: "theathletic.com", DisplayName: "The Athletic", Reliability: 92, Category: "publication", Specializations: []string{"transfers"}},
			{Domain: "skysports.com", DisplayName: "Sky Sports", Reliability: 90, Category: "broadcaster", Specializations: []string{"transfers"}},
			{Domain: "theguardian.com", DisplayName: "The Guardian", Reliability: 88, Category: "publication"},
			{Domain: "espn.com", DisplayName: "ESPN", Reliability: 85, Category: "broadcaster"},
			{Domain: "transfermarkt.com", DisplayName: "Transfermarkt", Reliability: 80, Category: "database"},
			{Domain: "goal.com", DisplayName: "Goal", Reliability: 75, Category: "publication"},
		},
		Authors: []AuthorCredibility{
			{Name: "Fabrizio Romano", Credibility: 95, Specializations: []string{"transfers"}},
			{Name: "David Ornstein", Credibility: 95, Specializations: []string{"transfers", "premier_league"}},
			{Name: "Gianluca Di Marzio", Credibility: 88, Specializations: []string{"transfers", "serie_a"}},
			{Name: "Simon Stone", Credibility: 88, Specializations: []string{"premier_league"}},
			{Name: "Paul Joyce", Credibility: 80, Specializations: []string{"premier_league"}},
			{Name: "Matt Law", Credibility: 82, Specializations: []string{"transfers"}},
			{Name: "Sami Mokbel", Credibility: 78, Specializations: []string{"transfers"}},
		},
	}
}

// LoadOrDefaults loads path, or the built-in data when path is empty.
func LoadOrDefaults(path string) (*DomainRegistry, *AuthorRegistry, error) {
	if path == "" {
		return FromFile(Defaults())
	}
	return Load(path)
}
