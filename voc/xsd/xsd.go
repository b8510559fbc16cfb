// Package xsd contains constants of the XML Schema datatypes vocabulary.
package xsd

import "github.com/oldman-go/oldman/voc"

func init() {
	voc.RegisterPrefix(Prefix, NS)
}

const (
	NS     = `http://www.w3.org/2001/XMLSchema#`
	Prefix = `xsd:`
)

const (
	String  = NS + `string`
	Boolean = NS + `boolean`

	Date     = NS + `date`
	DateTime = NS + `dateTime`
	Time     = NS + `time`

	Decimal = NS + `decimal`
	Double  = NS + `double`
	Float   = NS + `float`

	Integer            = NS + `integer`
	Int                = NS + `int`
	Long               = NS + `long`
	Short              = NS + `short`
	Byte               = NS + `byte`
	NonNegativeInteger = NS + `nonNegativeInteger`
	NonPositiveInteger = NS + `nonPositiveInteger`
	PositiveInteger    = NS + `positiveInteger`
	NegativeInteger    = NS + `negativeInteger`
	UnsignedLong       = NS + `unsignedLong`
	UnsignedInt        = NS + `unsignedInt`
	UnsignedShort      = NS + `unsignedShort`
	UnsignedByte       = NS + `unsignedByte`

	HexBinary = NS + `hexBinary`
	AnyURI    = NS + `anyURI`
)
