package creature

// DefaultNamePool is the built-in name pool for rooms and skeletons when the
// content files do not supply one.
func DefaultNamePool() []string {
	return []string{
		"Abanquetan", "Chafret", "Frastin", "Lebald", "Roset",
		"Adalbain", "Chanis", "Frith", "Leofmar", "Rummoth",
		"Adene", "Chard", "Fritiltel", "Leona", "Runadon",
		"Ading", "Christala", "Frond", "Lethe", "Ruppo",
		"Aebbie", "Chrithep", "Gabilinn", "Liutperi", "Sabariver",
		"Alter", "Coros", "Gisela", "Maladias", "Savens",
		"Amallovan", "Coudagi", "Gleid", "Maldui", "Sconius",
		"Amanui", "Crist", "Gliforoth", "Mallocke", "Scropa",
		"Amatt", "Cropre", "Glowin", "Malloria", "Serick",
		"Amring", "Cruel", "Goibhach", "Malys", "Sevanion",
		"Anberg", "Cuilo", "Goonen", "Mardun", "Shani",
		"Araldor", "Darresa", "Gunnath", "Megin", "Sperhaell",
		"Arbelath", "Daurenna", "Gwathain", "Meldir", "Spesi",
		"Argad", "Davina", "Gwenie", "Melrett", "Sreoter",
		"Arias", "Deadan", "Gwenvel", "Melve", "Starollian",
		"Artus", "Delmordian", "Herbod", "Milimedoc", "Surryngel",
		"Arvedane", "Derret", "Heriulf", "Miodowieft", "Sveige",
		"Athan", "Destica", "Hharr", "Moray", "Sylte",
		"Atten", "Devyn", "Hildere", "Morgan", "Taeret",
		"Bighredigh", "Ebervara", "Iavalis", "Nguan", "Tharkathel",
		"Bioregnir", "Echilda", "Iboiselvar", "Nimbas", "Thearc",
		"Bitireana", "Edrovan", "Ilmar", "Nimrasa", "Think",
		"Bjorn", "Edwulf", "Imann", "Nimrodric", "Thomar",
		"Blaimich", "Edyon", "Immona", "Nitiuba", "Thron",
		"Bouda", "Elgil", "Irvyn", "Opathy", "Tibold",
		"Brach", "Eliadafi", "Iseach", "Orgetesset", "Tince",
		"Bradwaith", "Elnothath", "Isoreth", "Orgettanya", "Tiscis",
		"Braignus", "Elshane", "Issiror", "Osgilos", "Tofithlain",
		"Brigan", "Erist", "Josciot", "Pedra", "Tynawd",
		"Brindes", "Ernoran", "Josine", "Pegan", "Tyrkade",
		"Brith", "Esunius", "Jozennain", "Pehryth", "Ulfus",
		"Brithecra", "Etachibeth", "Juice", "Pelice", "Untig",
		"Brithnico", "Ethian", "Kaila", "Perdus", "Uratham",
		"Budon", "Falorix", "Kelsigur", "Poilton", "Vitus",
		"Buros", "Farlindon", "Kenedil", "Possipsi", "Voriz",
		"Caira", "Farnouga", "Kenez", "Prabanaera", "Waingold",
		"Camrin", "Felle", "Kennyn", "Praso", "Wallyn",
		"Caratus", "Fertan", "Kenulf", "Prettanon", "Weret",
		"Carden", "Feyne", "Keriath", "Quodhach", "Wernin",
		"Cartildath", "Finive", "Kiricuros", "Regovan", "Womanor",
		"Cealda", "Florier", "Kristhilda", "Riciot", "Yashadrus",
		"Cealti", "Foiliann", "Kylin", "Riomareki", "Ysmenefer",
		"Celota", "Fraer", "Launde", "Rohelwynne", "Zenwy",
		"Cemettig", "Frames", "Leasach", "Rohild", "Zoranz",
	}
}
