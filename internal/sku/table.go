package sku

// curated maps common herb names to hand-assigned codes. Lookups are exact
// on the Chinese name; the map is never mutated after init.
var curated = map[string]string{
	"人参":  "RS",
	"党参":  "DS",
	"西洋参": "XYS",
	"太子参": "TZS",
	"当归":  "DG",
	"川芎":  "CX",
	"白芍":  "BS",
	"赤芍":  "CS",
	"熟地黄": "SDH",
	"生地黄": "SHDH",
	"黄芪":  "HQ",
	"白术":  "BZ",
	"茯苓":  "FL",
	"甘草":  "GC",
	"炙甘草": "ZGC",
	"陈皮":  "CP",
	"半夏":  "BX",
	"柴胡":  "CH",
	"黄芩":  "HQN",
	"黄连":  "HL",
	"黄柏":  "HB",
	"金银花": "JYH",
	"连翘":  "LQ",
	"板蓝根": "BLG",
	"桂枝":  "GZ",
	"麻黄":  "MH",
	"杏仁":  "XR",
	"桔梗":  "JG",
	"薄荷":  "BH",
	"葛根":  "GG",
	"枸杞子": "GQZ",
	"山药":  "SY",
	"山茱萸": "SZY",
	"泽泻":  "ZX",
	"牡丹皮": "MDP",
	"丹参":  "DAS",
	"红花":  "HH",
	"桃仁":  "TR",
	"三七":  "SQ",
	"川牛膝": "CNX",
	"杜仲":  "DZ",
	"续断":  "XD",
	"五味子": "WWZ",
	"酸枣仁": "SZR",
	"远志":  "YZ",
	"大枣":  "DZA",
	"生姜":  "SJ",
	"干姜":  "GJ",
	"附子":  "FZ",
	"肉桂":  "RG",
	"砂仁":  "SR",
	"木香":  "MX",
	"厚朴":  "HP",
	"枳壳":  "ZK",
}

// Curated reports the preassigned code for a Chinese medicine name.
func Curated(chineseName string) (string, bool) {
	code, ok := curated[chineseName]
	return code, ok
}
