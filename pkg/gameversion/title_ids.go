package gameversion

// title ids collected by the ProjectLighthouse project

var lbp1TitleIDs = []string{
	"BCES00141",
	"BCAS20091",
	"BCUS98208",
	"BCAS20078",
	"BCJS70009",
	"BCES00611",
	"BCUS98148",
	"BCAS20058",
	"BCJS30018",
	"BCUS98199",
	"BCJB95003",
	"NPEA00241",
	"NPUA98208",
	"NPHA80092",
	"BCKS10059",
	"BCKS10088",
	"BCUS70030",
	"NPJA00052",
	"NPUA80472",
	// Debug, Beta and Demo
	"BCET70011",
	"NPUA70045",
	"NPEA00147",
	"BCET70002",
	"NPHA80067",
	"NPJA90074",
	// Move
	"NPEA00243",
	"NPUA80479",
	"NPHA80093",
	"NPJA00058",
}

var lbp2TitleIDs = []string{
	"BCUS98249",
	"BCES01086",
	"BCAS20113",
	"BCJS70024",
	"BCAS20201",
	"BCUS98245",
	"BCES01345",
	"BCJS30058",
	"BCUS98372",
	"BCES00850",
	"BCES01346",
	"BCUS90260",
	"BCES01694",
	"NPUA80662",
	"NPEA00324",
	"NPEA00437",
	"BCES01693",
	"BCKS10150",
	// Debug, Beta and Demo
	"NPUA70117",
	"BCET70023",
	"BCET70035",
	"NPEA90077",
	"NPEA90098",
	"NPHA80113",
	"NPHA80125",
	"NPJA90152",
	"NPUA70127",
	"NPUA70169",
	"NPUA70174",
	// HUB
	"BCET70055",
	"NPEA00449",
	"NPHA80261",
	"NPUA80967",
}

var lbp3TitleIDs = []string{
	// PS3
	"BCES02068",
	"BCAS20322",
	"BCJS30095",
	"BCUS98362",
	"NPUA81116",
	"NPEA00515",
	"BCUS81138",
	"NPJA00123",
	"NPHO00189",
	"NPHA80277",
	// Debug, Beta and Demo
	"NPEA90128",
	"NPUA81174",
	"BCES01663",
	// PS4
	"CUSA00693",
	"CUSA00810",
	"CUSA00738",
	"PCJS50003",
	"CUSA00063",
	"PCKS90007",
	"PCAS00012",
	"CUSA00601",
	"CUSA00762",
	"PCAS20007",
	"CUSA00473",
	// Debug, Beta and Demo
	"CUSA01072",
	"CUSA01077",
	"CUSA01304",
}
