package ftag

import (
	"sort"
	"strings"
)

// Member is one value of an enumerated tag family, e.g. PROTEIN.KINASE.
// Its Value is the canonical "class::function" encoding.
type Member struct {
	family string
	name   string
	value  string
}

// Family returns the enumeration the member belongs to, e.g. "PROTEIN".
func (m Member) Family() string { return m.family }

// Name returns the member's identifier within its family, e.g. "KINASE".
func (m Member) Name() string { return m.name }

// Value returns the canonical encoding, e.g. "protein::kinase".
func (m Member) Value() string { return m.value }

// String renders the member the way it is referenced, e.g. "PROTEIN.KINASE".
func (m Member) String() string { return m.family + "." + m.name }

// Family is a discrete enumeration of tag members sharing a class prefix.
type Family struct {
	name    string
	prefix  string
	members []Member
}

var families = map[string]*Family{}

func newFamily(name, prefix string) *Family {
	f := &Family{name: name, prefix: prefix}
	families[strings.ToLower(name)] = f
	return f
}

func (f *Family) add(name, function string) Member {
	value, err := Encode(f.prefix, function)
	if err != nil {
		panic(err)
	}
	m := Member{family: f.name, name: name, value: value}
	f.members = append(f.members, m)
	return m
}

// Name returns the family identifier, e.g. "PROTEIN".
func (f *Family) Name() string { return f.name }

// Members returns the family members in declaration order.
func (f *Family) Members() []Member {
	out := make([]Member, len(f.members))
	copy(out, f.members)
	return out
}

// Member finds a member by name, case-insensitively.
func (f *Family) Member(name string) (Member, bool) {
	for _, m := range f.members {
		if strings.EqualFold(m.name, name) {
			return m, true
		}
	}
	return Member{}, false
}

// Lookup resolves "family.member" references such as protein.kinase.
func Lookup(family, member string) (Member, bool) {
	f, ok := families[strings.ToLower(family)]
	if !ok {
		return Member{}, false
	}
	return f.Member(member)
}

// IsFamily reports whether name refers to a known tag family.
func IsFamily(name string) bool {
	_, ok := families[strings.ToLower(name)]
	return ok
}

// Families returns the known family names, sorted.
func Families() []string {
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.name)
	}
	sort.Strings(names)
	return names
}

// Protein roles.
var (
	Protein = newFamily("PROTEIN", "protein")

	ProteinLigand              = Protein.add("LIGAND", "ligand")
	ProteinReceptor            = Protein.add("RECEPTOR", "receptor")
	ProteinKinase              = Protein.add("KINASE", "kinase")
	ProteinPhosphatase         = Protein.add("PHOSPHATASE", "phosphatase")
	ProteinAdaptor             = Protein.add("ADAPTOR", "adaptor")
	ProteinTranscriptionFactor = Protein.add("TRANSCRIPTION_FACTOR", "transcription_factor")
	ProteinEnzyme              = Protein.add("ENZYME", "enzyme")
	ProteinAntibody            = Protein.add("ANTIBODY", "antibody")
)

// Drug roles.
var (
	Drug = newFamily("DRUG", "drug")

	DrugSmallMolecule  = Drug.add("SMALL_MOLECULE", "small_molecule")
	DrugAntibody       = Drug.add("ANTIBODY", "antibody")
	DrugMAB            = Drug.add("MAB", "monoclonal_antibody")
	DrugInhibitor      = Drug.add("INHIBITOR", "inhibitor")
	DrugAgonist        = Drug.add("AGONIST", "agonist")
	DrugAntagonist     = Drug.add("ANTAGONIST", "antagonist")
	DrugInverseAgonist = Drug.add("INVERSE_AGONIST", "inverse_agonist")
	DrugModulator      = Drug.add("MODULATOR", "modulator")
	DrugADC            = Drug.add("ADC", "antibody_drug_conjugate")
	DrugRLT            = Drug.add("RLT", "radioligand_therapy")
	DrugPROTAC         = Drug.add("PROTAC", "protac")
	DrugImmunotherapy  = Drug.add("IMMUNOTHERAPY", "immunotherapy")
	DrugChemotherapy   = Drug.add("CHEMOTHERAPY", "chemotherapy")
)

// RNA roles.
var (
	RNA = newFamily("RNA", "rna")

	RNAMessenger     = RNA.add("MRNA", "mrna")
	RNAMicro         = RNA.add("MIRNA", "mirna")
	RNASmallInterfer = RNA.add("SIRNA", "sirna")
	RNALongNoncoding = RNA.add("LNCRNA", "lncrna")
)

// DNA roles.
var (
	DNA = newFamily("DNA", "dna")

	DNAGene     = DNA.add("GENE", "gene")
	DNAPromoter = DNA.add("PROMOTER", "promoter")
	DNAEnhancer = DNA.add("ENHANCER", "enhancer")
)

// Metabolite roles.
var (
	Metabolite = newFamily("METABOLITE", "metabolite")

	MetaboliteSubstrate = Metabolite.add("SUBSTRATE", "substrate")
	MetaboliteProduct   = Metabolite.add("PRODUCT", "product")
	MetaboliteCofactor  = Metabolite.add("COFACTOR", "cofactor")
)

// Lipid roles.
var (
	Lipid = newFamily("LIPID", "lipid")

	LipidPhospholipid = Lipid.add("PHOSPHOLIPID", "phospholipid")
	LipidGlycolipid   = Lipid.add("GLYCOLIPID", "glycolipid")
	LipidSterol       = Lipid.add("STEROL", "sterol")
)

// Ion types.
var (
	Ion = newFamily("ION", "ion")

	IonCalcium   = Ion.add("CALCIUM", "ca2+")
	IonPotassium = Ion.add("POTASSIUM", "k+")
	IonSodium    = Ion.add("SODIUM", "na+")
	IonChloride  = Ion.add("CHLORIDE", "cl-")
)

// Nanoparticle roles.
var (
	Nanoparticle = newFamily("NANOPARTICLE", "nanoparticle")

	NanoparticleDrugDelivery = Nanoparticle.add("DRUG_DELIVERY", "drug_delivery")
	NanoparticleThermal      = Nanoparticle.add("THERMAL", "photothermal")
	NanoparticleImaging      = Nanoparticle.add("IMAGING", "imaging")
	NanoparticleSensing      = Nanoparticle.add("SENSING", "sensing")
)
