package gql

const accountFields = `
      id
      accountNumber
      sold
      typeCompte
      actif
      clientId
      clientNom
      createdAt`

const transactionFields = `
      id
      type
      montant
      dateTransaction
      description
      numeroCompteSource
      numeroCompteDestination
      soldeApres`

const clientFields = `
      id
      email
      role
      firstName
      lastName
      dateNaissance
      city
      nationality
      numberNationality`

var (
	Login = Operation{Name: "Login", Kind: Mutation, Document: `
  mutation Login($input: LoginInput!) {
    login(input: $input) {
      token
      user { id email role }
    }
  }`}

	Register = Operation{Name: "Register", Kind: Mutation, Document: `
  mutation Register($input: RegisterInput!) {
    register(input: $input) {
      token
      user { id email role }
    }
  }`}

	Me = Operation{Name: "Me", Kind: Query, Document: `
  query Me {
    me { id email role }
  }`}

	GetAllComptes = Operation{Name: "GetAllComptes", Kind: Query, Document: `
  query GetAllComptes {
    getAllComptes {` + accountFields + `
    }
  }`}

	GetComptesByClient = Operation{Name: "GetComptesByClient", Kind: Query, Document: `
  query GetComptesByClient($clientId: ID!) {
    getComptesByClient(clientId: $clientId) {` + accountFields + `
    }
  }`}

	CreateCompte = Operation{Name: "CreateCompte", Kind: Mutation, Document: `
  mutation CreateCompte($clientId: ID!, $input: CompteDTOInput!) {
    createCompte(clientId: $clientId, input: $input) {` + accountFields + `
    }
  }`}

	DeleteCompte = Operation{Name: "DeleteCompte", Kind: Mutation, Document: `
  mutation DeleteCompte($id: ID!) {
    deleteCompte(id: $id)
  }`}

	GetAllTransactions = Operation{Name: "GetAllTransactions", Kind: Query, Document: `
  query GetAllTransactions($numeroCompte: String!) {
    getAllTransactions(numeroCompte: $numeroCompte) {` + transactionFields + `
    }
  }`}

	Versement = Operation{Name: "Versement", Kind: Mutation, Document: `
  mutation Versement($input: VersementInput!) {
    versement(input: $input) {` + transactionFields + `
    }
  }`}

	Retrait = Operation{Name: "Retrait", Kind: Mutation, Document: `
  mutation Retrait($input: RetraitInput!) {
    retrait(input: $input) {` + transactionFields + `
    }
  }`}

	Virement = Operation{Name: "Virement", Kind: Mutation, Document: `
  mutation Virement($input: VirementInput!) {
    virement(input: $input) {` + transactionFields + `
    }
  }`}

	GetAllClients = Operation{Name: "GetAllClients", Kind: Query, Document: `
  query GetAllClients {
    getAllClients {` + clientFields + `
    }
  }`}

	GetClientByID = Operation{Name: "GetClientById", Kind: Query, Document: `
  query GetClientById($id: ID!) {
    getClientById(id: $id) {` + clientFields + `
    }
  }`}

	UpdateClient = Operation{Name: "UpdateClient", Kind: Mutation, Document: `
  mutation UpdateClient($id: ID!, $input: UpdateClientInput!) {
    updateClient(id: $id, input: $input) {` + clientFields + `
    }
  }`}

	DeleteClient = Operation{Name: "DeleteClient", Kind: Mutation, Document: `
  mutation DeleteClient($id: ID!) {
    deleteClient(id: $id)
  }`}
)
