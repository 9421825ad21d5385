package models

// PolishCity is a canonical city name: uppercase, no diacritics, words joined by '_'.
// The zero value is CityUnknown.
type PolishCity string

const (
	CityUnknown                PolishCity = ""
	CityWarszawa               PolishCity = "WARSZAWA"
	CityKrakow                 PolishCity = "KRAKOW"
	CityLodz                   PolishCity = "LODZ"
	CityWroclaw                PolishCity = "WROCLAW"
	CityPoznan                 PolishCity = "POZNAN"
	CityGdansk                 PolishCity = "GDANSK"
	CitySzczecin               PolishCity = "SZCZECIN"
	CityBydgoszcz              PolishCity = "BYDGOSZCZ"
	CityLublin                 PolishCity = "LUBLIN"
	CityBialystok              PolishCity = "BIALYSTOK"
	CityKatowice               PolishCity = "KATOWICE"
	CityGdynia                 PolishCity = "GDYNIA"
	CityCzestochowa            PolishCity = "CZESTOCHOWA"
	CityRadom                  PolishCity = "RADOM"
	CityTorun                  PolishCity = "TORUN"
	CitySosnowiec              PolishCity = "SOSNOWIEC"
	CityRzeszow                PolishCity = "RZESZOW"
	CityKielce                 PolishCity = "KIELCE"
	CityGliwice                PolishCity = "GLIWICE"
	CityOlsztyn                PolishCity = "OLSZTYN"
	CityZabrze                 PolishCity = "ZABRZE"
	CityBielskoBiala           PolishCity = "BIELSKO_BIALA"
	CityBytom                  PolishCity = "BYTOM"
	CityZielonaGora            PolishCity = "ZIELONA_GORA"
	CityRybnik                 PolishCity = "RYBNIK"
	CityRudaSlaska             PolishCity = "RUDA_SLASKA"
	CityOpole                  PolishCity = "OPOLE"
	CityTychy                  PolishCity = "TYCHY"
	CityGorzowWielkopolski     PolishCity = "GORZOW_WIELKOPOLSKI"
	CityElblag                 PolishCity = "ELBLAG"
	CityPlock                  PolishCity = "PLOCK"
	CityDabrowaGornicza        PolishCity = "DABROWA_GORNICZA"
	CityWalbrzych              PolishCity = "WALBRZYCH"
	CityWloclawek              PolishCity = "WLOCLAWEK"
	CityTarnow                 PolishCity = "TARNOW"
	CityChorzow                PolishCity = "CHORZOW"
	CityKoszalin               PolishCity = "KOSZALIN"
	CityKalisz                 PolishCity = "KALISZ"
	CityLegnica                PolishCity = "LEGNICA"
	CityGrudziadz              PolishCity = "GRUDZIADZ"
	CityJaworzno               PolishCity = "JAWORZNO"
	CitySlupsk                 PolishCity = "SLUPSK"
	CityJastrzebieZdroj        PolishCity = "JASTRZEBIE_ZDROJ"
	CityNowySacz               PolishCity = "NOWY_SACZ"
	CityJeleniaGora            PolishCity = "JELENIA_GORA"
	CitySiedlce                PolishCity = "SIEDLCE"
	CityMyslowice              PolishCity = "MYSLOWICE"
	CityKonin                  PolishCity = "KONIN"
	CityPila                   PolishCity = "PILA"
	CityPiotrkowTrybunalski    PolishCity = "PIOTRKOW_TRYBUNALSKI"
	CityInowroclaw             PolishCity = "INOWROCLAW"
	CityLubin                  PolishCity = "LUBIN"
	CityOstrowWielkopolski     PolishCity = "OSTROW_WIELKOPOLSKI"
	CitySuwalki                PolishCity = "SUWALKI"
	CityStargard               PolishCity = "STARGARD"
	CityGniezno                PolishCity = "GNIEZNO"
	CityOstrowiecSwietokrzyski PolishCity = "OSTROWIEC_SWIETOKRZYSKI"
	CitySiemianowiceSlaskie    PolishCity = "SIEMIANOWICE_SLASKIE"
	CityGlogow                 PolishCity = "GLOGOW"
	CityPabianice              PolishCity = "PABIANICE"
	CityLeszno                 PolishCity = "LESZNO"
	CityZamosc                 PolishCity = "ZAMOSC"
	CityLomza                  PolishCity = "LOMZA"
	CityZory                   PolishCity = "ZORY"
	CityPruszkow               PolishCity = "PRUSZKOW"
	CityElk                    PolishCity = "ELK"
	CityTomaszowMazowiecki     PolishCity = "TOMASZOW_MAZOWIECKI"
	CityChelm                  PolishCity = "CHELM"
	CityMielec                 PolishCity = "MIELEC"
	CityKedzierzynKozle        PolishCity = "KEDZIERZYN_KOZLE"
	CityPrzemysl               PolishCity = "PRZEMYSL"
	CityStalowaWola            PolishCity = "STALOWA_WOLA"
	CityTczew                  PolishCity = "TCZEW"
	CityBialaPodlaska          PolishCity = "BIALA_PODLASKA"
	CityBelchatow              PolishCity = "BELCHATOW"
	CitySwidnica               PolishCity = "SWIDNICA"
	CityBedzin                 PolishCity = "BEDZIN"
	CityZgierz                 PolishCity = "ZGIERZ"
	CityPiekarySlaskie         PolishCity = "PIEKARY_SLASKIE"
	CityRaciborz               PolishCity = "RACIBORZ"
	CityLegionowo              PolishCity = "LEGIONOWO"
	CityOstroleka              PolishCity = "OSTROLEKA"
	CitySwietochlowice         PolishCity = "SWIETOCHLOWICE"
	CityWejherowo              PolishCity = "WEJHEROWO"
	CityZawiercie              PolishCity = "ZAWIERCIE"
	CityStarachowice           PolishCity = "STARACHOWICE"
	CitySkierniewice           PolishCity = "SKIERNIEWICE"
	CityPulawy                 PolishCity = "PULAWY"
	CityKutno                  PolishCity = "KUTNO"
	CityMyszkow                PolishCity = "MYSZKOW"
	CitySopot                  PolishCity = "SOPOT"
)

var knownCities = map[PolishCity]struct{}{
	CityWarszawa:               {},
	CityKrakow:                 {},
	CityLodz:                   {},
	CityWroclaw:                {},
	CityPoznan:                 {},
	CityGdansk:                 {},
	CitySzczecin:               {},
	CityBydgoszcz:              {},
	CityLublin:                 {},
	CityBialystok:              {},
	CityKatowice:               {},
	CityGdynia:                 {},
	CityCzestochowa:            {},
	CityRadom:                  {},
	CityTorun:                  {},
	CitySosnowiec:              {},
	CityRzeszow:                {},
	CityKielce:                 {},
	CityGliwice:                {},
	CityOlsztyn:                {},
	CityZabrze:                 {},
	CityBielskoBiala:           {},
	CityBytom:                  {},
	CityZielonaGora:            {},
	CityRybnik:                 {},
	CityRudaSlaska:             {},
	CityOpole:                  {},
	CityTychy:                  {},
	CityGorzowWielkopolski:     {},
	CityElblag:                 {},
	CityPlock:                  {},
	CityDabrowaGornicza:        {},
	CityWalbrzych:              {},
	CityWloclawek:              {},
	CityTarnow:                 {},
	CityChorzow:                {},
	CityKoszalin:               {},
	CityKalisz:                 {},
	CityLegnica:                {},
	CityGrudziadz:              {},
	CityJaworzno:               {},
	CitySlupsk:                 {},
	CityJastrzebieZdroj:        {},
	CityNowySacz:               {},
	CityJeleniaGora:            {},
	CitySiedlce:                {},
	CityMyslowice:              {},
	CityKonin:                  {},
	CityPila:                   {},
	CityPiotrkowTrybunalski:    {},
	CityInowroclaw:             {},
	CityLubin:                  {},
	CityOstrowWielkopolski:     {},
	CitySuwalki:                {},
	CityStargard:               {},
	CityGniezno:                {},
	CityOstrowiecSwietokrzyski: {},
	CitySiemianowiceSlaskie:    {},
	CityGlogow:                 {},
	CityPabianice:              {},
	CityLeszno:                 {},
	CityZamosc:                 {},
	CityLomza:                  {},
	CityZory:                   {},
	CityPruszkow:               {},
	CityElk:                    {},
	CityTomaszowMazowiecki:     {},
	CityChelm:                  {},
	CityMielec:                 {},
	CityKedzierzynKozle:        {},
	CityPrzemysl:               {},
	CityStalowaWola:            {},
	CityTczew:                  {},
	CityBialaPodlaska:          {},
	CityBelchatow:              {},
	CitySwidnica:               {},
	CityBedzin:                 {},
	CityZgierz:                 {},
	CityPiekarySlaskie:         {},
	CityRaciborz:               {},
	CityLegionowo:              {},
	CityOstroleka:              {},
	CitySwietochlowice:         {},
	CityWejherowo:              {},
	CityZawiercie:              {},
	CityStarachowice:           {},
	CitySkierniewice:           {},
	CityPulawy:                 {},
	CityKutno:                  {},
	CityMyszkow:                {},
	CitySopot:                  {},
}

// ParsePolishCity resolves an already normalized name against the known cities
func ParsePolishCity(normalized string) (PolishCity, bool) {
	c := PolishCity(normalized)
	if _, ok := knownCities[c]; ok {
		return c, true
	}
	return CityUnknown, false
}
